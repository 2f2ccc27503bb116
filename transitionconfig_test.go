package chartbuild

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/comalice/chartbuild/testutil"
)

func TestTransitionConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		t       TransitionConfig
		wantErr bool
	}{
		{"targetless", TransitionConfig{Actions: []string{"log"}}, false},
		{"sibling", TransitionConfig{Target: "step2"}, false},
		{"dotted", TransitionConfig{Target: "parent.child"}, false},
		{"child", TransitionConfig{Target: ".child"}, false},
		{"absolute", TransitionConfig{Target: "#wizard.step1"}, false},
		{"dash and colon", TransitionConfig{Target: "ns:step-2"}, false},
		{"space", TransitionConfig{Target: "step 2"}, false},
		{"non-ascii", TransitionConfig{Target: "größe"}, false},
		{"symbol", TransitionConfig{Target: "#wizard.paso$"}, false},
		{"bare hash", TransitionConfig{Target: "#"}, true},
		{"empty segment", TransitionConfig{Target: "parent..child"}, true},
		{"trailing dot", TransitionConfig{Target: "parent."}, true},
		{"empty action", TransitionConfig{Target: "step2", Actions: []string{"log", ""}}, true},
		{"empty action without target", TransitionConfig{Actions: []string{""}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.t.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransitions_SingleEncodesAsObject(t *testing.T) {
	on := TransitionMap{
		"NEXT": {{Target: "step2", Actions: []string{"logTransition"}}},
		"SKIP": {{Target: "step3", Guard: "canSkip"}, {Target: "step2"}},
	}

	testutil.JSONEq(t, `{
		"NEXT": {"target": "step2", "actions": ["logTransition"]},
		"SKIP": [{"target": "step3", "guard": "canSkip"}, {"target": "step2"}]
	}`, on)
}

func TestTransitions_Decode(t *testing.T) {
	tests := []struct {
		name string
		json string
		yaml string
		want TransitionMap
	}{
		{
			name: "string shorthand",
			json: `{"GO": "active"}`,
			yaml: "GO: active\n",
			want: TransitionMap{"GO": {{Target: "active"}}},
		},
		{
			name: "object",
			json: `{"GO": {"target": "active", "guard": "ready"}}`,
			yaml: "GO:\n  target: active\n  guard: ready\n",
			want: TransitionMap{"GO": {{Target: "active", Guard: "ready"}}},
		},
		{
			name: "array",
			json: `{"GO": [{"target": "a", "guard": "first"}, {"target": "b"}]}`,
			yaml: "GO:\n  - target: a\n    guard: first\n  - target: b\n",
			want: TransitionMap{"GO": {{Target: "a", Guard: "first"}, {Target: "b"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromJSON TransitionMap
			require.NoError(t, json.Unmarshal([]byte(tt.json), &fromJSON))
			assert.Equal(t, tt.want, fromJSON)

			var fromYAML TransitionMap
			require.NoError(t, yaml.Unmarshal([]byte(tt.yaml), &fromYAML))
			assert.Equal(t, tt.want, fromYAML)
		})
	}
}

func TestTransitions_RoundTrip(t *testing.T) {
	on := TransitionMap{
		"NEXT":  {{Target: "step2", Actions: []string{"log"}, Description: "advance"}},
		"RETRY": {{Target: "step1", Reenter: true}, {Actions: []string{"count"}}},
	}
	for _, c := range testutil.Codecs() {
		t.Run(c.Name(), func(t *testing.T) {
			assert.Equal(t, on, testutil.RoundTrip(t, c, on))
		})
	}
}

func TestNewTransitionMap_LaterDefinitionWins(t *testing.T) {
	on := NewTransitionMap(
		TransitionDefinition{Event: "NEXT", Transitions: []TransitionConfig{{Target: "a"}}},
		TransitionDefinition{Event: "BACK", Transitions: []TransitionConfig{{Target: "b"}}},
		TransitionDefinition{Event: "NEXT", Transitions: []TransitionConfig{{Target: "c"}}},
	)

	assert.Equal(t, []string{"BACK", "NEXT"}, on.Events())
	assert.Equal(t, Transitions{{Target: "c"}}, on["NEXT"])
}

func TestTransitionBuilder(t *testing.T) {
	tr := NewTransitionBuilder[testState, testAction, testGuard]().
		To("step2").
		WithActions("logTransition", "trackAnalytics").
		GuardedBy("canGoNext").
		WithDelay(Millis(250)).
		DescribedAs("go forward").
		Build()

	testutil.JSONEq(t, `{
		"target": "step2",
		"actions": ["logTransition", "trackAnalytics"],
		"guard": "canGoNext",
		"delay": "250",
		"description": "go forward"
	}`, tr)
	assert.NoError(t, tr.Validate())
}

func TestTransitionBuilder_TargetlessAndReenter(t *testing.T) {
	tr := NewTransitionBuilder[testState, testAction, testGuard]().
		WithActions("increment").
		Reentering().
		Build()

	assert.Empty(t, tr.Target)
	assert.True(t, tr.Reenter)
	testutil.JSONEq(t, `{"actions": ["increment"], "reenter": true}`, tr)
}

func TestStepBuilder(t *testing.T) {
	next := NewTransitionBuilder[testState, testAction, testGuard]().To("step2").WithActions("log").Build()
	skip := NewTransitionBuilder[testState, testAction, testGuard]().To("step3").GuardedBy("canSkip").Build()
	fallback := NewTransitionBuilder[testState, testAction, testGuard]().To("step2").Build()

	sb := NewStepBuilder[testState, testEvent, testAction, testGuard]("step1").
		WithTransitionDefinition("NEXT", next).
		WithTransitionDefinition("SKIP", skip, fallback)

	assert.Equal(t, testState("step1"), sb.State())
	testutil.JSONEq(t, `{
		"NEXT": {"target": "step2", "actions": ["log"]},
		"SKIP": [{"target": "step3", "guard": "canSkip"}, {"target": "step2"}]
	}`, sb.Build())
}

func TestStepBuilder_BuildIsIndependent(t *testing.T) {
	tr := TransitionConfig{Target: "a", Actions: []string{"x"}}
	sb := NewStepBuilder[testState, testEvent, testAction, testGuard]("s").WithTransitionDefinition("GO", tr)

	first := sb.Build()
	first["GO"][0].Actions[0] = "mutated"

	assert.Equal(t, []string{"x"}, sb.Build()["GO"][0].Actions)
	assert.Equal(t, []string{"x"}, tr.Actions)
}

func TestTransitions_DecodeRejectsUnknownFields(t *testing.T) {
	for _, doc := range []string{`{"taget": "b"}`, `[{"target": "b"}, {"guard": "g", "gaurd": "g"}]`} {
		var ts Transitions
		assert.ErrorContains(t, json.Unmarshal([]byte(doc), &ts), "unknown field", doc)
	}
	for _, doc := range []string{"taget: b\n", "- target: b\n- actions: [log]\n  acton: x\n"} {
		var ts Transitions
		assert.ErrorContains(t, yaml.Unmarshal([]byte(doc), &ts), "not found in transition", doc)
	}

	var ts Transitions
	require.NoError(t, yaml.Unmarshal([]byte("target: b\nactions: [log]\nguard: ok\ndelay: \"100\"\ndescription: d\nreenter: true\n"), &ts))
	assert.Equal(t, Transitions{{Target: "b", Actions: []string{"log"}, Guard: "ok", Delay: "100", Description: "d", Reenter: true}}, ts)
}
