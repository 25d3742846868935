package common

// SessionCookieName is the name of the cookie carrying the signed session
// token.
const SessionCookieName = "wanttogo_session"

// LoginPath is where unauthenticated requests to protected pages are sent.
const LoginPath = "/"
