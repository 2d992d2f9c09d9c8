package mlxbench

import (
	"testing"

	"github.com/spf13/viper"
)

func setGenerateFlag(t *testing.T, name, value string) {
	t.Helper()
	flag := generateCmd.Flags().Lookup(name)
	if flag == nil {
		t.Fatalf("unknown generate flag %q", name)
	}
	prev := flag.Value.String()
	prevChanged := flag.Changed
	if err := generateCmd.Flags().Set(name, value); err != nil {
		t.Fatalf("set flag %s=%s: %v", name, value, err)
	}
	t.Cleanup(func() {
		_ = flag.Value.Set(prev)
		flag.Changed = prevChanged
	})
}

func TestGeneratePromptResolution(t *testing.T) {
	flags := generateCmd.Flags()

	if got := resolveString(flags, "prompt", "prompt"); got != defaultGeneratePrompt {
		t.Fatalf("default prompt: %q", got)
	}

	viper.Set("prompt", "configured prompt")
	t.Cleanup(func() { viper.Set("prompt", nil) })
	if got := resolveString(flags, "prompt", "prompt"); got != "configured prompt" {
		t.Fatalf("config-file prompt ignored: %q", got)
	}

	setGenerateFlag(t, "prompt", "flag prompt")
	if got := resolveString(flags, "prompt", "prompt"); got != "flag prompt" {
		t.Fatalf("changed flag must win over config: %q", got)
	}
}
