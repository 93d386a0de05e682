package tui

// ConfirmConfig controls which destructive actions prompt before running.
type ConfirmConfig struct {
	DeleteTask     bool
	DeleteCategory bool
	MoveStatus     bool
}

type Option func(*Model)

func DefaultConfirmConfig() ConfirmConfig {
	return ConfirmConfig{
		DeleteTask:     true,
		DeleteCategory: true,
		MoveStatus:     true,
	}
}

func WithConfirmConfig(cfg ConfirmConfig) Option {
	return func(m *Model) {
		m.confirm = cfg
	}
}

func WithCounterLimits(latin, cjk int) Option {
	return func(m *Model) {
		m.counter = newCounter(latin, cjk)
	}
}
