// Package secure holds secret values in memguard enclaves while they are in
// flight between the backend and the reply encoder.
//
// A value fetched from a store is sealed immediately; it is opened once, when
// the reply line is assembled, and the enclave is dropped afterwards:
//
//	buf, err := secure.FromString(value)
//	if err != nil {
//	    return err
//	}
//	defer buf.Destroy()
//
//	plain, err := buf.String()
//
// Enclaves are encrypted at rest (XSalsa20Poly1305) and their backing pages
// are mlocked where the platform allows it. The final reply must still be
// written as plaintext JSON to stdout; this package only narrows the window
// in which the plaintext lives in ordinary heap memory.
//
// Call memguard.Purge at process exit to wipe every remaining enclave key.
package secure
