/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package clientconfig

import (
	"time"

	"github.com/wenlng/go-service-balance/balance/serverlist"
	"github.com/wenlng/go-service-balance/balance/strategy"
	"github.com/wenlng/go-service-balance/foundation/helper"
)

// ClientConfig holds the per-service overrides of the balancing behavior.
// Zero and nil fields are unset and fall back to lower-precedence records.
type ClientConfig struct {
	ServerList *serverlist.Config
	Strategy   strategy.StrategyType

	// Secure forces the secure flag of chosen instances when set to true.
	// SecurePorts feeds the default server introspector.
	Secure      *bool
	SecurePorts []int

	// Circuit thresholds
	FailureThreshold int
	TripBaseDelay    time.Duration
	TripMaxDelay     time.Duration
}

// Bool .
func Bool(b bool) *bool {
	return &b
}

// Clone .
func (c *ClientConfig) Clone() *ClientConfig {
	if c == nil {
		return nil
	}
	clone := *c
	if c.ServerList != nil {
		serverList := *c.ServerList
		clone.ServerList = &serverList
	}
	if c.Secure != nil {
		secure := *c.Secure
		clone.Secure = &secure
	}
	if c.SecurePorts != nil {
		clone.SecurePorts = append([]int(nil), c.SecurePorts...)
	}
	return &clone
}

// overlay applies the set fields of o on top of c
func (c *ClientConfig) overlay(o *ClientConfig) {
	if o == nil {
		return
	}
	if o.ServerList != nil {
		serverList := *o.ServerList
		c.ServerList = &serverList
	}
	if o.Strategy != "" {
		c.Strategy = o.Strategy
	}
	if o.Secure != nil {
		secure := *o.Secure
		c.Secure = &secure
	}
	if o.SecurePorts != nil {
		c.SecurePorts = append([]int(nil), o.SecurePorts...)
	}
	if o.FailureThreshold > 0 {
		c.FailureThreshold = o.FailureThreshold
	}
	if helper.IsDurationSet(o.TripBaseDelay) {
		c.TripBaseDelay = o.TripBaseDelay
	}
	if helper.IsDurationSet(o.TripMaxDelay) {
		c.TripMaxDelay = o.TripMaxDelay
	}
}
