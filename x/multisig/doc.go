/*
Package multisig implements an M-of-N authorization engine.

A singleton wallet holds a fixed signer set and an approval threshold.
Any signer can propose an action, other signers approve it, and once
the approval count reaches the threshold anyone can execute it. On
execution the engine mints the wallet condition into the context, so
the delegated handler observes an authority derived purely from the
wallet derivation seed, with no key material behind it.

All four operations run under a savepoint, so a failure anywhere,
including inside the delegated handler, leaves no partial writes. The
engine takes no locks; callers running concurrent operations against
the same wallet must serialize them.
*/
package multisig
