package manifest

import (
	"encoding/json"
	"testing"

	"github.com/quasar/mclaunch/internal/rules"
)

func TestArgument_UnmarshalJSON_BareString(t *testing.T) {
	var a Argument
	if err := json.Unmarshal([]byte(`"--demo"`), &a); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(a.Values) != 1 || a.Values[0] != "--demo" {
		t.Errorf("got %+v", a)
	}
	if len(a.Rules) != 0 {
		t.Errorf("expected no rules for a bare string argument")
	}
}

func TestArgument_UnmarshalJSON_ConditionalSingleValue(t *testing.T) {
	raw := `{"rules":[{"action":"allow","features":{"is_demo_user":true}}],"value":"--demo"}`
	var a Argument
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(a.Values) != 1 || a.Values[0] != "--demo" {
		t.Errorf("got values %+v", a.Values)
	}
	if len(a.Rules) != 1 || a.Rules[0].Action != rules.Allow {
		t.Errorf("got rules %+v", a.Rules)
	}
}

func TestArgument_UnmarshalJSON_ConditionalListValue(t *testing.T) {
	raw := `{"rules":[{"action":"allow","features":{"has_custom_resolution":true}}],"value":["--width","${resolution_width}"]}`
	var a Argument
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	want := []string{"--width", "${resolution_width}"}
	if len(a.Values) != len(want) || a.Values[0] != want[0] || a.Values[1] != want[1] {
		t.Errorf("got %+v, want %+v", a.Values, want)
	}
}

func TestArgument_MarshalJSON_RoundTrip(t *testing.T) {
	orig := Argument{
		Values: []string{"--width", "${resolution_width}"},
		Rules:  []rules.Rule{{Action: rules.Allow, Features: map[rules.FeatureType]any{rules.HasCustomResolution: true}}},
	}
	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded Argument
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(decoded.Values) != 2 || decoded.Values[0] != "--width" || decoded.Values[1] != "${resolution_width}" {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
	if len(decoded.Rules) != 1 {
		t.Errorf("expected rules preserved across round trip, got %+v", decoded.Rules)
	}
}

func TestArgument_Applies(t *testing.T) {
	unconditional := Argument{Values: []string{"-cp"}}
	if !unconditional.Applies(rules.NewEnvironmentFeatures()) {
		t.Error("an argument with no rules should always apply")
	}

	env := rules.NewEnvironmentFeatures()
	env.SetFeature(rules.IsDemoUser, true)
	gated := Argument{
		Values: []string{"--demo"},
		Rules:  []rules.Rule{{Action: rules.Allow, Features: map[rules.FeatureType]any{rules.IsDemoUser: true}}},
	}
	if !gated.Applies(env) {
		t.Error("expected gated argument to apply when its feature matches")
	}
	if gated.Applies(rules.NewEnvironmentFeatures()) {
		t.Error("expected gated argument not to apply when its feature is absent")
	}
}

func TestLibrary_JSON_RoundTrip(t *testing.T) {
	raw := `{"name":"org.lwjgl:lwjgl:3.3.3:natives-linux@jar","url":"https://libraries.minecraft.net/"}`
	var lib Library
	if err := json.Unmarshal([]byte(raw), &lib); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if lib.Name.Group != "org.lwjgl" || lib.Name.Artifact != "lwjgl" || lib.Name.Classifier != "natives-linux" {
		t.Errorf("got %+v", lib.Name)
	}

	data, err := json.Marshal(lib)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var reparsed Library
	if err := json.Unmarshal(data, &reparsed); err != nil {
		t.Fatalf("re-unmarshal failed: %v", err)
	}
	if reparsed.Name.Render() != lib.Name.Render() {
		t.Errorf("round trip name mismatch: %q vs %q", reparsed.Name.Render(), lib.Name.Render())
	}
}

func TestLibrary_HasNatives(t *testing.T) {
	current := rules.CurrentOS()
	withNatives := Library{Natives: map[rules.OperatingSystem]string{current: "natives-${arch}"}}
	if !withNatives.HasNatives() {
		t.Error("expected HasNatives true when current OS has a natives entry")
	}

	withoutNatives := Library{}
	if withoutNatives.HasNatives() {
		t.Error("expected HasNatives false with no natives map")
	}
}

func TestVersionManifest_EffectiveJar(t *testing.T) {
	m := VersionManifest{ID: "1.21.4"}
	if m.EffectiveJar() != "1.21.4" {
		t.Errorf("EffectiveJar() = %q, want manifest id", m.EffectiveJar())
	}
	m.Jar = "1.21.4-client"
	if m.EffectiveJar() != "1.21.4-client" {
		t.Errorf("EffectiveJar() = %q, want explicit jar field", m.EffectiveJar())
	}
}

func TestVersionManifest_EffectiveJavaVersion_Default(t *testing.T) {
	m := VersionManifest{}
	got := m.EffectiveJavaVersion()
	want := DefaultJavaVersionReq()
	if got != want {
		t.Errorf("EffectiveJavaVersion() = %+v, want default %+v", got, want)
	}
}
