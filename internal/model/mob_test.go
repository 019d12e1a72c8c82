package model

import (
	"math"
	"testing"
)

func TestMob_SetGoalDetectsChange(t *testing.T) {
	m := NewMob(1, "wolf", CategoryHostile, Vec3{}, 100)

	prev, changed := m.SetGoal(AttackGoal(42, 1.5))
	if prev.Kind != GoalIdle {
		t.Errorf("prev.Kind = %v, want IDLE", prev.Kind)
	}
	if !changed {
		t.Error("installing a new goal should report changed")
	}

	_, changed = m.SetGoal(AttackGoal(42, 1.5))
	if changed {
		t.Error("re-installing the identical goal should not report changed")
	}

	_, changed = m.SetGoal(AttackGoal(43, 1.5))
	if !changed {
		t.Error("a different target is a goal change")
	}
}

func TestMob_SetPositionUpdatesFacing(t *testing.T) {
	m := NewMob(1, "deer", CategoryPassive, Vec3{}, 100)

	m.SetPosition(Vec3{X: 0, Y: 3})
	f := m.Facing()
	if f.X != 0 || f.Y != 1 {
		t.Errorf("Facing() = %+v, want unit +Y", f)
	}

	// Standing still keeps the old facing.
	m.SetPosition(Vec3{X: 0, Y: 3})
	if got := m.Facing(); got != f {
		t.Errorf("Facing() after no-op move = %+v, want %+v", got, f)
	}
}

func TestMob_AnchorStaysAtSpawn(t *testing.T) {
	spawn := Vec3{X: 5, Y: -2}
	m := NewMob(1, "deer", CategoryPassive, spawn, 100)

	m.SetPosition(Vec3{X: 50, Y: 50})
	if got := m.Anchor(); got != spawn {
		t.Errorf("Anchor() = %+v, want spawn %+v", got, spawn)
	}
}

func TestMob_HPClamps(t *testing.T) {
	m := NewMob(1, "boar", CategoryNeutral, Vec3{}, 80)

	m.SetHP(-10)
	if got := m.HP(); got != 0 {
		t.Errorf("HP() after SetHP(-10) = %d, want 0", got)
	}
	if !m.IsDead() {
		t.Error("IsDead() should be true at 0 HP")
	}

	m.SetHP(500)
	if got := m.HP(); got != 80 {
		t.Errorf("HP() after SetHP(500) = %d, want clamp to 80", got)
	}
}

func TestMob_HealthFraction(t *testing.T) {
	m := NewMob(1, "boar", CategoryNeutral, Vec3{}, 80)
	m.SetHP(20)
	if got := m.HealthFraction(); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("HealthFraction() = %v, want 0.25", got)
	}
}

func TestMob_NoteDamage(t *testing.T) {
	m := NewMob(1, "boar", CategoryNeutral, Vec3{}, 80)

	m.NoteDamage(42, 5, 17)

	if got := m.LastDamageTick(); got != 17 {
		t.Errorf("LastDamageTick() = %d, want 17", got)
	}
	if got := m.Threats().Threat(42); got != 50 {
		t.Errorf("Threats().Threat(42) = %d, want 50", got)
	}

	// Environmental damage (attacker 0) records the tick but no aggressor.
	m.NoteDamage(0, 10, 20)
	if got := m.Threats().Len(); got != 1 {
		t.Errorf("Threats().Len() = %d, want 1", got)
	}
}

func TestMob_FreshMobNeverDamaged(t *testing.T) {
	m := NewMob(1, "deer", CategoryPassive, Vec3{}, 100)

	// The sentinel is far in the past so damage-window checks never
	// trigger on a fresh spawn.
	if got := m.LastDamageTick(); got >= 0 {
		t.Errorf("LastDamageTick() on fresh mob = %d, want negative sentinel", got)
	}
}
