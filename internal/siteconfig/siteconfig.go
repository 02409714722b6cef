// Package siteconfig manages the singleton site configuration row: the
// display mode and the per-track registration ceilings.
package siteconfig

import (
	regmodels "pccreg/internal/registration/models"
	dErrors "pccreg/pkg/domain-errors"
)

// Mode selects which marketing content the landing page renders.
type Mode string

const (
	ModeTrainingBasic Mode = "TRAINING_BASIC"
	ModePCCClass      Mode = "PCC_CLASS"
)

func (m Mode) IsValid() bool {
	return m == ModeTrainingBasic || m == ModePCCClass
}

// ParseMode validates a mode value from the wire.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.IsValid() {
		return "", dErrors.Newf(dErrors.CodeBadRequest, "unknown display mode %q", s)
	}
	return m, nil
}

// SingletonID pins the config row to a constant key so the storage layer can
// enforce that exactly one instance exists.
const SingletonID = 1

// Defaults applied when the row is lazily created on first read.
const (
	DefaultMode    = ModeTrainingBasic
	DefaultCeiling = 35
)

// Config is the singleton configuration object.
type Config struct {
	Mode               Mode `json:"mode"`
	MaxQuotaSoftware   int  `json:"max_quota_software"`
	MaxQuotaNetwork    int  `json:"max_quota_network"`
	MaxQuotaMultimedia int  `json:"max_quota_multimedia"`
}

// DefaultConfig returns the documented defaults for lazy creation.
func DefaultConfig() *Config {
	return &Config{
		Mode:               DefaultMode,
		MaxQuotaSoftware:   DefaultCeiling,
		MaxQuotaNetwork:    DefaultCeiling,
		MaxQuotaMultimedia: DefaultCeiling,
	}
}

// CeilingFor returns the registration ceiling for a track.
func (c *Config) CeilingFor(track regmodels.Track) int {
	switch track {
	case regmodels.TrackSoftware:
		return c.MaxQuotaSoftware
	case regmodels.TrackNetwork:
		return c.MaxQuotaNetwork
	default:
		return c.MaxQuotaMultimedia
	}
}
