package services

import (
	"time"

	"fitness-tracker-system/models"
)

// Comment pools for auto-captioning logged activities. Picked by a cheap
// hash of the activity so the same log keeps the same caption.
var walkComments = []string{
	"Fresh air counts double.",
	"One foot in front of the other.",
	"The hills saw you coming.",
	"Sidewalk conquered.",
}

var liftComments = []string{
	"The bar never stood a chance.",
	"Plates were moved. Respect.",
	"Gravity filed a complaint.",
	"Strong work. Literally.",
}

var bigLiftComments = []string{
	"That's serious tonnage.",
	"Somewhere, a forklift is jealous.",
}

// CommentFor picks a caption for an activity without one.
func CommentFor(a models.Activity) string {
	if a.Kind == models.ActivityWalk {
		return walkComments[commentIndex(a, len(walkComments))]
	}
	if a.Volume() >= 2000 {
		return bigLiftComments[commentIndex(a, len(bigLiftComments))]
	}
	return liftComments[commentIndex(a, len(liftComments))]
}

func commentIndex(a models.Activity, n int) int {
	h := int(a.Volume()) + int(a.Km*10) + a.Reps + a.Sets + len(a.Name)
	if h < 0 {
		h = -h
	}
	return h % n
}

var dailyTips = []string{
	"Hydrate before you feel thirsty.",
	"Rest days build muscle too.",
	"Form first, weight second.",
	"A short walk beats no walk.",
	"Warm up before the heavy sets.",
	"Sleep is the best recovery tool you own.",
	"Small sessions still keep the streak alive.",
}

// DailyTip rotates one tip per calendar day.
func DailyTip(now time.Time) string {
	day := now.YearDay() + now.Year()
	return dailyTips[day%len(dailyTips)]
}
