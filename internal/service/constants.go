package service

const (
	// Snapshot windows
	DefaultDays          = 7
	DefaultExtendedDays  = 28
	PlannedLookaheadDays = 7

	// History windows
	DefaultLookbackDays = 1095
	DailyTierDays       = 90
	WeeklyTierDays      = 180
	Tier1yDays          = 365
	Tier2yDays          = 730
	Tier3yDays          = 1095
	DaysPerWeek         = 7
	DaysPerBucketMonth  = 30

	// Zone distribution is only kept for monthly tiers up to this span
	MaxZoneTierDays = 365

	// A stretch without activities longer than this is a data gap
	DataGapThresholdDays = 7

	// Average days per calendar month for weight trends
	DaysPerMonth = 30.44

	// Document list limits
	RecentActivitiesLimit = 10
	WellnessDataLimit     = 7
	PlannedWorkoutsLimit  = 5

	// Concurrent stream downloads per snapshot
	StreamFetchConcurrency = 4

	SecondsPerHour = 3600
)
