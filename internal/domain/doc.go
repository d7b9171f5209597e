// Package domain contains the core entities of the upscaling gateway: the
// request parameters and uploaded images handed to the remote service, the
// opaque task handle it returns, and the normalized task outcome produced
// while polling. It is independent of any transport or remote API details.
package domain
