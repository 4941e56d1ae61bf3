//go:build !cutdebug

package cut

// debugContracts turns factory precondition violations into panics. Release
// builds clamp instead.
const debugContracts = false
