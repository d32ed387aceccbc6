package session

// LoginPath is where unauthenticated visitors of admin pages are sent.
const LoginPath = "/admin/login"

// Guard decides whether an admin-only page may be shown for s. When it may
// not, redirect names the page to go to instead.
func Guard(s Session) (allowed bool, redirect string) {
	if s.Authenticated() {
		return true, ""
	}
	return false, LoginPath
}
