package gekko

import (
	"time"
)

// LifetimeComponent removes its entity once TimeLeft runs out. Removal goes
// through Commands, so outlines on the entity are released with it.
type LifetimeComponent struct {
	TimeLeft time.Duration
}

type LifecycleModule struct{}

func (mod LifecycleModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(lifetimeSystem).
			InStage(PostUpdate).
			RunAlways(),
	)
}

func lifetimeSystem(t *Time, cmd *Commands) {
	if t.Dt <= 0 {
		return
	}
	MakeQuery1[LifetimeComponent](cmd).Map(func(eid EntityId, lt *LifetimeComponent) bool {
		lt.TimeLeft -= t.Dt
		if lt.TimeLeft <= 0 {
			cmd.Logger().Debugf("Lifetime of entity %v ran out", eid)
			cmd.RemoveEntity(eid)
		}
		return true
	})
}
