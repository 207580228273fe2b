package gekko

import (
	"time"
)

type Time struct {
	Time time.Time
	Dt   time.Duration
	// Elapsed is the time since the module was installed.
	Elapsed time.Duration
	start   time.Time
}

type TimeModule struct{}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	now := time.Now()
	cmd.AddResources(&Time{
		Time:  now,
		start: now,
	})
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude).
			RunAlways(),
	)
}

func timeSystem(timeResource *Time) {
	now := time.Now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Elapsed = now.Sub(timeResource.start)
	timeResource.Time = now
}
