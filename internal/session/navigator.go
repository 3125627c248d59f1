// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

// Route names a top-level area of the app.
type Route string

const (
	// RouteHome is the protected landing area.
	RouteHome Route = "home"
	// RouteLogin is the public sign-in area.
	RouteLogin Route = "login"
)

// Navigator moves the UI to a route.
type Navigator interface {
	Navigate(route Route)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route Route)

// Navigate calls f(route).
func (f NavigatorFunc) Navigate(route Route) { f(route) }

type noopNavigator struct{}

func (noopNavigator) Navigate(Route) {}
