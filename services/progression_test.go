package services

import "testing"

func TestLevelFromXP_ZeroFloor(t *testing.T) {
	if got := LevelFromXP(0); got != 0 {
		t.Errorf("LevelFromXP(0) = %d, want 0", got)
	}
	if got := LevelFromXP(-50); got != 0 {
		t.Errorf("LevelFromXP(-50) = %d, want 0", got)
	}
}

func TestLevelFromXP_Brackets(t *testing.T) {
	cases := []struct {
		xp   int64
		want int
	}{
		{0, 0},
		{9, 0},
		{10, 1},
		{29, 1},
		{30, 2},
		{59, 2},
		{60, 3},
		{100, 4},
	}
	for _, tc := range cases {
		if got := LevelFromXP(tc.xp); got != tc.want {
			t.Errorf("LevelFromXP(%d) = %d, want %d", tc.xp, got, tc.want)
		}
	}
}

func TestLevelFromXP_Monotonic(t *testing.T) {
	prev := 0
	for xp := int64(0); xp <= 2000; xp++ {
		level := LevelFromXP(xp)
		if level < prev {
			t.Fatalf("level dropped from %d to %d at %d XP", prev, level, xp)
		}
		prev = level
	}
}

func TestTotalXPForLevel_RoundTrip(t *testing.T) {
	for level := 0; level <= 50; level++ {
		threshold := TotalXPForLevel(level)
		if got := LevelFromXP(threshold); got != level {
			t.Errorf("LevelFromXP(TotalXPForLevel(%d)) = %d, want %d", level, got, level)
		}
		if level > 0 {
			if got := LevelFromXP(threshold - 1); got != level-1 {
				t.Errorf("one XP below level %d threshold gives level %d, want %d", level, got, level-1)
			}
		}
	}
}

func TestXPForLevelGain_MatchesBrackets(t *testing.T) {
	for level := 1; level <= 50; level++ {
		bracket := TotalXPForLevel(level) - TotalXPForLevel(level-1)
		if got := XPForLevelGain(level); got != bracket {
			t.Errorf("XPForLevelGain(%d) = %d, want bracket size %d", level, got, bracket)
		}
	}
	if got := XPForLevelGain(1); got != 10 {
		t.Errorf("XPForLevelGain(1) = %d, want 10", got)
	}
}

func TestXPInCurrentLevel(t *testing.T) {
	if got := XPInCurrentLevel(35); got != 5 {
		t.Errorf("XPInCurrentLevel(35) = %d, want 5", got)
	}
	if got := XPInCurrentLevel(0); got != 0 {
		t.Errorf("XPInCurrentLevel(0) = %d, want 0", got)
	}
}

func TestProgressFraction_Bounds(t *testing.T) {
	for xp := int64(0); xp <= 500; xp += 7 {
		frac := ProgressFraction(xp)
		if frac < 0 || frac > 1 {
			t.Errorf("ProgressFraction(%d) = %f, out of [0,1]", xp, frac)
		}
	}
	// 15 XP: level 1, 5 into a 20 XP bracket
	if got := ProgressFraction(15); got != 0.25 {
		t.Errorf("ProgressFraction(15) = %f, want 0.25", got)
	}
}

func TestLevelName_PastTable(t *testing.T) {
	if LevelName(99) != LevelName(10) {
		t.Error("levels past the table should reuse the top name")
	}
	if LevelName(-3) != LevelName(0) {
		t.Error("negative levels should clamp to the bottom name")
	}
}

func TestLevelEmoji_HighestAtOrBelow(t *testing.T) {
	cases := []struct {
		level int
		want  string
	}{
		{0, "🛋️"},
		{2, "🛋️"},
		{3, "💦"},
		{7, "💪"},
		{12, "🏆"},
	}
	for _, tc := range cases {
		if got := LevelEmoji(tc.level); got != tc.want {
			t.Errorf("LevelEmoji(%d) = %s, want %s", tc.level, got, tc.want)
		}
	}
}
