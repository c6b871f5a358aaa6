package storage

import (
	"context"
	"time"
)

// SampleUpdater is an adaptor on top of Samples store, it appends user's samples of a single class
type SampleUpdater struct {
	samplesService *Samples
	class          int
	timeout        time.Duration
}

// NewSampleUpdater makes a SampleUpdater for the class, timeout 0 means no timeout
func NewSampleUpdater(samplesService *Samples, class int, timeout time.Duration) *SampleUpdater {
	return &SampleUpdater{samplesService: samplesService, class: class, timeout: timeout}
}

// Append a message to the samples, forcing user origin
func (u *SampleUpdater) Append(msg string) error {
	ctx, cancel := u.ctx()
	defer cancel()
	return u.samplesService.Add(ctx, u.class, SampleOriginUser, msg)
}

// Remove a user's message of the updater's class from the samples, presets are kept
func (u *SampleUpdater) Remove(msg string) error {
	ctx, cancel := u.ctx()
	defer cancel()
	return u.samplesService.DeleteMessage(ctx, u.class, SampleOriginUser, msg)
}

func (u *SampleUpdater) ctx() (context.Context, context.CancelFunc) {
	if u.timeout > 0 {
		return context.WithTimeout(context.Background(), u.timeout)
	}
	return context.Background(), func() {}
}
