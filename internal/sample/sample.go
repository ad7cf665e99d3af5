// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package sample holds the training configuration the xpctl binary manages.
// Library users bring their own type; the CLI needs a concrete one.
package sample

import (
	"github.com/xpctl/xpctl/internal/codec"
)

// Optimizer configures the optimizer.
type Optimizer struct {
	Name        string  `yaml:"name" validate:"oneof=adam adamw sgd"`
	Momentum    float64 `yaml:"momentum" validate:"gte=0,lte=1"`
	WeightDecay float64 `yaml:"weight_decay" validate:"gte=0"`
}

// TrainingConfig is the per-experiment configuration.
type TrainingConfig struct {
	LR        float64   `yaml:"lr" validate:"gt=0" desc:"Learning rate"`
	BatchSize int       `yaml:"batch_size" validate:"gt=0" desc:"Mini-batch size"`
	Epochs    int       `yaml:"epochs" validate:"gte=1" desc:"Number of passes over the training set"`
	Seed      int64     `yaml:"seed" desc:"Random seed"`
	Optimizer Optimizer `yaml:"optimizer" desc:"Optimizer settings"`
	Notes     string    `yaml:"notes,omitempty"`
}

// Default returns the configuration written for new experiments.
func Default() TrainingConfig {
	return TrainingConfig{
		LR:        1e-4,
		BatchSize: 32,
		Epochs:    10,
		Seed:      42,
		Optimizer: Optimizer{Name: "adam", Momentum: 0.9},
	}
}

// Schema returns the schema for TrainingConfig, filling missing keys from
// Default.
func Schema() (*codec.StructSchema[TrainingConfig], error) {
	return codec.NewStructSchema(Default())
}
