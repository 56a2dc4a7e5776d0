package generator

import (
	"time"

	"selenex/internal/config"
	"selenex/internal/selector"
)

// FromConfig builds a Generator from the generator section of cfg, loading
// the selector policy file when one is configured.
func FromConfig(cfg config.GeneratorConfig) (*Generator, error) {
	policy, err := selector.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return nil, err
	}
	return New(selector.New(policy), Options{
		DefaultStartURL:   cfg.StartURL,
		ElementTimeout:    seconds(cfg.ElementTimeout),
		ClickableTimeout:  seconds(cfg.ClickableTimeout),
		NavigationTimeout: seconds(cfg.NavigationTimeout),
		ShutdownGrace:     seconds(cfg.ShutdownGrace),
		LogFile:           cfg.LogFile,
	}), nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
