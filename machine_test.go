package chartbuild

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"github.com/comalice/chartbuild/testutil"
)

// wizardBuilder assembles a three step wizard with a loading step that
// invokes an actor and times out.
func wizardBuilder() *MachineBuilder[testContext, testState, testAction, testGuard] {
	step1 := NewStateBuilder[testAction]().
		WithEntry("enterStep").
		WithTag("form").
		WithTransitions(
			NewStepBuilder[testState, testEvent, testAction, testGuard]("step1").
				WithTransitionDefinition("NEXT",
					NewTransitionBuilder[testState, testAction, testGuard]().To("loading").GuardedBy("canGoNext").Build()).
				Build()).
		Build()

	loading := NewStateBuilder[testAction]().
		WithTag("busy").
		WithInvoke(NewInvokeBuilder[testState, testAction]().
			WithSource("fetchUserData").
			OnDone("step2", "saveApiData").
			OnError("step1", "handleApiError").
			Build()).
		WithAfter(NewDelayedTransitionsBuilder[testState, testAction, testGuard]().
			After(DelayOf(testDelay("loadTimeout")), "step1").
			Build()).
		Build()

	step2 := NewStateBuilder[testAction]().
		WithTag("form").
		WithTransitions(NewTransitionMap(TransitionDefinition{
			Event:       "FINISH",
			Transitions: []TransitionConfig{{Target: "complete"}},
		})).
		Build()

	complete := NewStateBuilder[testAction]().
		AsFinalStateWithOutput(NewOutputBuilder().WithStatus("completed").Build()).
		Build()

	return NewMachineBuilder[testContext, testState, testAction, testGuard]("wizard").
		WithInitialState("step1").
		WithContext(testContext{Name: "wizard"}).
		WithStates(NewStatesBuilder[testState]().
			WithState("step1", step1).
			WithState("loading", loading).
			WithState("step2", step2).
			WithState("complete", complete).
			Build())
}

func wizardImplementations() Implementations[testContext] {
	return NewProvideBuilder[testContext]().
		WithActions(NewActionsBuilder[testAction, testContext]().
			WithAction("enterStep", func(testContext, Event) {}).
			WithAction("saveApiData", func(testContext, Event) {}).
			WithAction("handleApiError", func(testContext, Event) {}).
			Build()).
		WithGuards(NewGuardsBuilder[testGuard, testContext]().
			WithGuard("canGoNext", func(testContext, Event) bool { return true }).
			Build()).
		WithDelays(NewDelaysBuilder[testDelay, testContext]().
			WithDelay("loadTimeout", 5*time.Second).
			Build()).
		WithActors(NewActorsBuilder().WithActor("fetchUserData", "stub").Build()).
		Build()
}

func TestMachineBuilder_Build(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	m, err := wizardBuilder().WithLogger(zap.New(core)).Build()
	require.NoError(t, err)

	assert.Equal(t, "wizard", m.ID())
	ctx, ok := m.Context()
	require.True(t, ok)
	assert.Equal(t, "wizard", ctx.Name)

	cfg := m.Config()
	assert.Equal(t, "step1", cfg.Initial)
	assert.Equal(t, []string{"complete", "loading", "step1", "step2"}, cfg.Paths())

	entries := logs.FilterMessage("built machine").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "wizard", entries[0].ContextMap()["machine"])
	assert.Equal(t, int64(4), entries[0].ContextMap()["states"])
}

func TestMachineBuilder_BuildRejectsInvalidConfig(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	m, err := wizardBuilder().
		WithLogger(zap.New(core)).
		WithInitialState("nowhere").
		Build()

	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, 1, logs.FilterMessage("machine configuration rejected").Len())
}

func TestMachineBuilder_BuildIsolatesMachine(t *testing.T) {
	b := wizardBuilder()
	m, err := b.Build()
	require.NoError(t, err)

	b.WithDescription("changed").WithState("extra", NewStateBuilder[testAction]().Build())

	assert.Empty(t, m.Config().Description)
	assert.NotContains(t, m.Config().States, "extra")
}

func TestMachineBuilder_Parallel(t *testing.T) {
	region := NewStateBuilder[testAction]().
		WithInitial("off").
		WithStates(NewStatesBuilder[testState]().
			WithState("off", NewStateBuilder[testAction]().Build()).
			WithState("on", NewStateBuilder[testAction]().Build()).
			Build()).
		Build()

	m, err := NewMachineBuilder[testContext, testState, testAction, testGuard]("panel").
		WithInitialState("ignored").
		AsParallel().
		WithState("bold", region).
		WithState("italic", region).
		WithTransitions(TransitionMap{"RESET": {{Target: "#panel.bold.off"}}}).
		Build()
	require.NoError(t, err)

	cfg := m.Config()
	assert.Equal(t, Parallel, cfg.Kind())
	assert.Empty(t, cfg.Initial)
}

func TestMachine_ProvideAndUnresolved(t *testing.T) {
	m, err := wizardBuilder().Build()
	require.NoError(t, err)

	unresolved := m.Unresolved()
	assert.Equal(t, []string{"enterStep", "handleApiError", "saveApiData"}, unresolved.Actions)
	assert.Equal(t, []string{"canGoNext"}, unresolved.Guards)
	assert.Equal(t, []string{"loadTimeout"}, unresolved.Delays)
	assert.Equal(t, []string{"fetchUserData"}, unresolved.Actors)

	err = m.CheckImplementations()
	assert.ErrorIs(t, err, ErrUnresolved)
	assert.Contains(t, err.Error(), `guard "canGoNext"`)

	provided := m.Provide(wizardImplementations())
	assert.NoError(t, provided.CheckImplementations())
	assert.Equal(t, References{}, provided.Unresolved())

	// the original machine is untouched
	assert.Error(t, m.CheckImplementations())
	assert.Equal(t, m.Version(), provided.Version())
}

func TestMachine_UnresolvedNilImplementations(t *testing.T) {
	m, err := wizardBuilder().Build()
	require.NoError(t, err)

	impl := wizardImplementations().Merge(Implementations[testContext]{
		Actions: NewActionsBuilder[testAction, testContext]().
			WithAction("enterStep", nil).
			WithAssignAction("saveApiData", nil).
			Build(),
		Guards: NewGuardsBuilder[testGuard, testContext]().
			WithGuard("canGoNext", nil).
			Build(),
	})

	unresolved := m.Provide(impl).Unresolved()
	assert.Equal(t, []string{"enterStep", "saveApiData"}, unresolved.Actions)
	assert.Equal(t, []string{"canGoNext"}, unresolved.Guards)
	assert.Empty(t, unresolved.Delays)
	assert.Empty(t, unresolved.Actors)
}

func TestMachine_ProvideLayersOverBuilderImplementations(t *testing.T) {
	m, err := wizardBuilder().
		WithGuards(NewGuardsBuilder[testGuard, testContext]().
			WithGuard("canGoNext", func(testContext, Event) bool { return false }).
			Build()).
		Build()
	require.NoError(t, err)

	before := m.Implementations()
	assert.False(t, before.Guards.Eval("canGoNext", testContext{}, Event{}))

	after := m.Provide(wizardImplementations()).Implementations()
	assert.True(t, after.Guards.Eval("canGoNext", testContext{}, Event{}))
}

func TestMachine_Tagged(t *testing.T) {
	m, err := wizardBuilder().Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"step1", "step2"}, m.Tagged("form"))
	assert.Equal(t, []string{"loading"}, m.Tagged("busy"))
	assert.Empty(t, m.Tagged("missing"))
}

func TestMachine_Marshal(t *testing.T) {
	m, err := wizardBuilder().Build()
	require.NoError(t, err)

	cfg := m.Config()
	want, err := json.Marshal(&cfg)
	require.NoError(t, err)
	got, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))

	data, err := yaml.Marshal(m)
	require.NoError(t, err)
	var decoded MachineConfig
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "wizard", decoded.ID)
	assert.Equal(t, cfg.States, decoded.States)
}

func TestNewMachine(t *testing.T) {
	cfg := appMachine()
	m, err := NewMachine(cfg, Implementations[testContext]{})
	require.NoError(t, err)
	assert.Equal(t, "app", m.ID())

	_, ok := m.Context()
	assert.False(t, ok, "no context set")

	cfg.ID = ""
	_, err = NewMachine(cfg, Implementations[testContext]{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestComputeVersion(t *testing.T) {
	a := appMachine()
	b := appMachine()
	assert.Equal(t, ComputeVersion(&a), ComputeVersion(&b), "same configuration, same version")
	assert.Len(t, ComputeVersion(&a), 16)

	b.States["idle"].On["GO"][0].Target = "done"
	assert.NotEqual(t, ComputeVersion(&a), ComputeVersion(&b))

	a.Version = "1.2.0"
	assert.Equal(t, "1.2.0", ComputeVersion(&a))

	b.Context = make(chan int)
	assert.Equal(t, "invalid", ComputeVersion(&b))
}

func TestInvokeBuilder(t *testing.T) {
	inv := NewInvokeBuilder[testState, testAction]().
		WithSource("fetchData").
		WithID("loader").
		WithInput(NewInputBuilder().WithTask("sync").WithProperty("limit", 10).Build()).
		WithOnDone(TransitionConfig{Target: "done", Guard: "hasData"}).
		WithOnError(TransitionConfig{Target: "failed"}).
		Build()

	testutil.JSONEq(t, `{
		"id": "loader",
		"src": "fetchData",
		"input": {"task": "sync", "limit": 10},
		"onDone": {"target": "done", "guard": "hasData"},
		"onError": {"target": "failed"}
	}`, inv)
}

func TestInvokeBuilder_EmptyOnDoneAndLogic(t *testing.T) {
	logic := PromiseFunc(nil)
	inv := NewInvokeBuilder[testState, testAction]().
		WithSourceLogic(logic).
		WithGeneratedID().
		OnDone("").
		Build()

	_, err := uuid.Parse(inv.ID)
	assert.NoError(t, err)
	assert.NoError(t, inv.Validate(), "logic stands in for a source")

	data, err := json.Marshal(inv)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": "`+inv.ID+`", "onDone": {}}`, string(data))
}

func TestDelayedTransitionsBuilder(t *testing.T) {
	after := NewDelayedTransitionsBuilder[testState, testAction, testGuard]().
		After(Millis(1000), "timeout").
		AfterWithActions(Millis(5000), []testAction{"logTimeout"}, "longTimeout").
		AfterWithGuard(DelayOf(testDelay("retryDelay")), "canRetry", "retry").
		AfterWithActionsAndGuard(Millis(100), []testAction{"ping"}, "alive", "").
		Build()

	testutil.JSONEq(t, `{
		"1000": {"target": "timeout"},
		"5000": {"target": "longTimeout", "actions": ["logTimeout"]},
		"retryDelay": {"target": "retry", "guard": "canRetry"},
		"100": {"actions": ["ping"], "guard": "alive"}
	}`, after)
}

func TestDelayedTransitionsBuilder_AfterMultipleLaterWins(t *testing.T) {
	after := NewDelayedTransitionsBuilder[testState, testAction, testGuard]().
		AfterMultiple(
			DelayedTransition[testState, testAction, testGuard]{Delay: Millis(1000), Target: "first"},
			DelayedTransition[testState, testAction, testGuard]{Delay: Millis(2000), Target: "second", Actions: []testAction{"log"}},
			DelayedTransition[testState, testAction, testGuard]{Delay: Millis(1000), Target: "replaced"},
		).
		Build()

	assert.Equal(t, DelayedTransitions{
		"1000": {Target: "replaced"},
		"2000": {Target: "second", Actions: []string{"log"}},
	}, after)
}
