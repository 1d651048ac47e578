package orbit

// Scene units: 1 unit = 100,000 km.
const (
	EarthDiameter = 0.1274
	EarthRadius   = EarthDiameter / 2
	MoonDiameter  = 0.0347
	SunDiameter   = 13.9

	EarthMoonDistance = 3.844
	EarthSunDistance  = 1496

	LEOAltitude = 0.0016
	MEOAltitude = 0.02
	GEOAltitude = 0.35786

	// GravitationalParameter is G*M for Earth in scene units.
	GravitationalParameter = 0.000001

	// DefaultCrashMargin is the clearance above the surface that counts as impact.
	DefaultCrashMargin = 0.002
)

// Integration tuning.
const (
	// DeltaScale converts elapsed wall-clock time into an integration sub-step.
	DeltaScale = 0.01
	// MaxSubStep bounds the sub-step near the inverse-square singularity.
	MaxSubStep = 1.0 / 120

	MinTimeScale = 0.1
	MaxTimeScale = 3.0
)
