// Copyright 2025 CineFeed Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file defines the rate-limiter component that the client uses to
// space out its outbound requests. The limiter is an injected interface so
// tests can observe throttling without waiting on real time.
package tmdb

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate serializes access to the external API. Wait blocks until the next
// request is allowed to proceed, or until the context is canceled.
type Gate interface {
	Wait(ctx context.Context) error
}

// FixedIntervalGate is a Gate that admits at most one request per interval.
// It is a token bucket with a burst of one, so consecutive calls are spaced
// by at least the configured cooldown regardless of whether the previous
// request succeeded or failed.
type FixedIntervalGate struct {
	limiter *rate.Limiter
}

// NewFixedIntervalGate creates a gate that admits one request every
// interval. A non-positive interval yields an unthrottled gate.
func NewFixedIntervalGate(interval time.Duration) *FixedIntervalGate {
	if interval <= 0 {
		return &FixedIntervalGate{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &FixedIntervalGate{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the gate admits the next request.
func (g *FixedIntervalGate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}
