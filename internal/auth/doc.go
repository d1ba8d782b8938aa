// Package auth guards the importer's admin pages.
//
// Two modes are supported, selected with AUTH_MODE:
//   - "none": every request acts as the built-in administrator
//   - "local": users log in with a username and password; the session lives
//     in the sqlite database through scs
//
// Routes that change state sit behind CSRFMiddleware and RequireCapability:
//
//	admin := router.Group("/tools", auth.RequireCapability(entities.CapabilityManageOptions))
package auth
