// Package anim implements the numeric integrator for animated values.
//
//   - [Animation]: the mutable motion record (config, range, channels)
//   - [Channel]: one scalar degree of freedom
//   - [Advance]: moves every non-done channel forward by dt milliseconds
//
// Three motion modes exist, selected by the config: fixed-duration easing,
// exponential decay, and the default spring. Springs integrate with
// semi-implicit Euler at a fixed 1 ms sub-step, which keeps the integration
// stable regardless of frame dt.
package anim
