package gekko

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orderModule records the order modules are installed in.
type orderModule struct {
	name  string
	order *[]string
}

func (m orderModule) Install(app *App, cmd *Commands) {
	*m.order = append(*m.order, m.name)
}

func TestAppBuilder_Stateless(t *testing.T) {
	app := NewAppBuilder().Build()

	if app.stateful {
		t.Errorf("Expected stateful to be false")
	}
	if app.initialState != 0 || app.finalState != 0 {
		t.Errorf("Expected no states, got %v..%v", app.initialState, app.finalState)
	}
}

func TestAppBuilder_UseStates(t *testing.T) {
	app := NewAppBuilder().UseStates(1, 3).Build()

	if !app.stateful {
		t.Errorf("Expected stateful to be true")
	}
	if app.initialState != 1 || app.finalState != 3 {
		t.Errorf("Expected states 1..3, got %v..%v", app.initialState, app.finalState)
	}
}

func TestAppBuilder_InstallsModulesInOrder(t *testing.T) {
	var order []string
	NewAppBuilder().
		UseModule(orderModule{"logging", &order}, orderModule{"assets", &order}).
		UseModule(orderModule{"outline", &order}).
		Build()

	assert.Equal(t, []string{"logging", "assets", "outline"}, order)
}

func TestAppBuilder_BuildsOutlineApp(t *testing.T) {
	app := NewAppBuilder().
		UseModule(LoggingModule{Prefix: "test"}, AssetServerModule{}, HierarchyModule{}, OutlineModule{}).
		Build()

	_, ok := Resource[OutlineRegistry](app)
	require.True(t, ok, "OutlineModule must install a registry")
	_, ok = Resource[AssetServer](app)
	require.True(t, ok)
	assert.IsType(t, &DefaultLogger{}, app.Logger())
}

func TestAppBuilder_OutlineModuleNeedsAssetsFirst(t *testing.T) {
	builder := NewAppBuilder().UseModule(OutlineModule{}, AssetServerModule{})

	assert.Panics(t, func() { builder.Build() })
}

func TestAppBuilder_StatefulRun(t *testing.T) {
	app := NewAppBuilder().UseStates(0, 1).Build()

	var entered []State
	app.UseSystem(System(func() { entered = append(entered, 0) }).InState(OnEnter(0)))
	app.UseSystem(System(func() { entered = append(entered, 1) }).InState(OnEnter(1)))
	app.UseSystem(System(func(cmd *Commands) { cmd.ChangeState(1) }).InState(OnExecute(0)))

	app.Run()

	assert.Equal(t, []State{0, 1}, entered)
}
