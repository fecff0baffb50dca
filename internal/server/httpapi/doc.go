// Package httpapi exposes the authentication and band-membership services over
// JSON/HTTP. It owns routing, bearer authentication, band guards, rate
// limiting, metrics and the mapping of service errors to status codes.
package httpapi
