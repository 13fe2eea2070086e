package services

// Progression curve: the XP bracket for level L costs 10×L, so the cumulative
// XP to reach the start of level L is 5×L×(L+1). 0 XP is level 0; the first
// level-up lands at 10 XP, the next at 30, then 60, and so on.
const xpBracketStep = 10

// LevelFromXP maps total XP to the level it buys. Monotone in totalXP and
// the inverse of TotalXPForLevel (LevelFromXP(TotalXPForLevel(L)) == L).
func LevelFromXP(totalXP int64) int {
	if totalXP < 0 {
		return 0
	}
	level := 0
	for totalXP >= TotalXPForLevel(level+1) {
		level++
	}
	return level
}

// TotalXPForLevel returns the cumulative XP required to reach the start of
// the given level. TotalXPForLevel(0) == 0.
func TotalXPForLevel(level int) int64 {
	if level <= 0 {
		return 0
	}
	l := int64(level)
	return xpBracketStep / 2 * l * (l + 1)
}

// XPForLevelGain returns the size of the bracket from level-1 to level.
// XPForLevelGain(1) is also the pre-login display default.
func XPForLevelGain(level int) int64 {
	if level <= 0 {
		return 0
	}
	return xpBracketStep * int64(level)
}

// XPInCurrentLevel returns how much of the current bracket has been earned.
func XPInCurrentLevel(totalXP int64) int64 {
	return totalXP - TotalXPForLevel(LevelFromXP(totalXP))
}

// ProgressFraction returns progress through the current bracket, clamped to
// [0, 1], for the XP bar.
func ProgressFraction(totalXP int64) float64 {
	level := LevelFromXP(totalXP)
	bracket := XPForLevelGain(level + 1)
	if bracket <= 0 {
		return 0
	}
	frac := float64(totalXP-TotalXPForLevel(level)) / float64(bracket)
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}

var levelNames = []string{
	0:  "Couch Potato",
	1:  "Warm-Up Act",
	2:  "Sweat Starter",
	3:  "Rep Counter",
	4:  "Iron Apprentice",
	5:  "Trail Blazer",
	6:  "Plate Stacker",
	7:  "Cardio Commander",
	8:  "Barbell Baron",
	9:  "Endurance Elite",
	10: "Fitness Legend",
}

var levelEmojis = map[int]string{
	0:  "🛋️",
	3:  "💦",
	5:  "💪",
	8:  "🔥",
	10: "🏆",
}

// LevelName returns the display name for a level. Levels past the table
// reuse the top name.
func LevelName(level int) string {
	if level < 0 {
		level = 0
	}
	if level >= len(levelNames) {
		return levelNames[len(levelNames)-1]
	}
	return levelNames[level]
}

// LevelEmoji returns the emoji for the highest table entry at or below level.
func LevelEmoji(level int) string {
	best := ""
	bestKey := -1
	for key, emoji := range levelEmojis {
		if level >= key && key > bestKey {
			best = emoji
			bestKey = key
		}
	}
	return best
}
