// Package fakes provides test doubles for the AWS SDK clients used by the backends.
//
// Fakes are manually implemented (not generated) to provide precise control
// over test behavior, and they count calls so tests can assert that a
// request never reached the store.
//
// Usage:
//
//	fake := fakes.NewFakeSSMClient()
//	fake.AddParameter("db.password", "s3cr3t")
//	ssmBackend := backend.NewSSM(fake)
//	// Resolve through ssmBackend...
//	assert.Equal(t, 1, fake.Calls("db.password"))
package fakes
