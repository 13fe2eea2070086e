package models

// Achievement describes a single unlockable goal. Criteria is a pure
// predicate over a user snapshot; it must not mutate the record.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Criteria    func(*UserRecord) bool
}

// AchievementList is the fixed, ordered rule set. Order only matters for
// presentation staggering; every rule fires at most once per user.
var AchievementList = []Achievement{
	{
		ID: "first_workout", Name: "Off the Couch",
		Description: "Complete your first workout",
		Criteria:    func(u *UserRecord) bool { return u.Stats.TotalWorkouts >= 1 },
	},
	{
		ID: "ten_workouts", Name: "Regular",
		Description: "Complete 10 workouts",
		Criteria:    func(u *UserRecord) bool { return u.Stats.TotalWorkouts >= 10 },
	},
	{
		ID: "fifty_workouts", Name: "Gym Rat",
		Description: "Complete 50 workouts",
		Criteria:    func(u *UserRecord) bool { return u.Stats.TotalWorkouts >= 50 },
	},
	{
		ID: "hundred_workouts", Name: "Iron Century",
		Description: "Complete 100 workouts",
		Criteria:    func(u *UserRecord) bool { return u.Stats.TotalWorkouts >= 100 },
	},
	{
		ID: "marathon_km", Name: "Marathon Walker",
		Description: "Accumulate 42.2 km of walking",
		Criteria:    func(u *UserRecord) bool { return u.Stats.TotalKm >= 42.2 },
	},
	{
		ID: "hundred_km", Name: "Road Warrior",
		Description: "Accumulate 100 km of walking",
		Criteria:    func(u *UserRecord) bool { return u.Stats.TotalKm >= 100 },
	},
	{
		ID: "volume_10k", Name: "Ten Tonnes",
		Description: "Lift a cumulative volume of 10,000 kg",
		Criteria:    func(u *UserRecord) bool { return u.Stats.TotalVolume >= 10000 },
	},
	{
		ID: "volume_100k", Name: "Heavy Industry",
		Description: "Lift a cumulative volume of 100,000 kg",
		Criteria:    func(u *UserRecord) bool { return u.Stats.TotalVolume >= 100000 },
	},
	{
		ID: "streak_week", Name: "Unbroken Week",
		Description: "Work out 7 days in a row",
		Criteria:    func(u *UserRecord) bool { return u.Streak >= 7 },
	},
	{
		ID: "level_five", Name: "Climbing",
		Description: "Reach level 5",
		Criteria:    func(u *UserRecord) bool { return u.Level >= 5 },
	},
	{
		ID: "level_ten", Name: "Double Digits",
		Description: "Reach level 10",
		Criteria:    func(u *UserRecord) bool { return u.Level >= 10 },
	},
	{
		ID: "theme_tourist", Name: "Theme Tourist",
		Description: "Try 3 different themes",
		Criteria:    func(u *UserRecord) bool { return u.Stats.ThemesTried.Len() >= 3 },
	},
	{
		ID: "nosy", Name: "Nosy Neighbour",
		Description: "Snoop on other profiles 5 times",
		Criteria:    func(u *UserRecord) bool { return u.Stats.TimesSnooped >= 5 },
	},
	{
		ID: "data_hoarder", Name: "Data Hoarder",
		Description: "Export your data",
		Criteria:    func(u *UserRecord) bool { return u.Stats.ExportedData },
	},
	{
		ID: "time_traveler", Name: "Time Traveler",
		Description: "Import a data file",
		Criteria:    func(u *UserRecord) bool { return u.Stats.ImportedData },
	},
}
