// Package preflight provides readiness checks for the external tooling and
// filesystem paths a descwrite run depends on.
//
// The CLI "descwrite doctor" command runs RunAll and renders the results;
// individual check functions are exported for targeted probes.
package preflight
