//go:build cutdebug

package cut

const debugContracts = true
