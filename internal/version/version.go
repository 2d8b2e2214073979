// Package version pins the toolkit version reported in the User-Agent header.
package version

// Version is the current release of the SewaBazaar Go toolkit.
const Version = "0.6.0"
