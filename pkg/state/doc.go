// Package state keeps the upload history of a dumpship installation.
//
// Every send, accepted or not, becomes a Receipt. Watch mode consults the
// history so a restart does not ship the same dump twice.
//
//	repo := state.NewFileRepository(filepath.Join(home, ".dumpship"))
//	history, err := repo.Append(ctx, state.Receipt{URL: url, Files: files, Code: resp.Code})
//	if err != nil {
//	    return err
//	}
//	if history.Uploaded("/var/crash/5f1c7e2a.dmp") { ... }
//
// The history lives in receipts.json as indented JSON and is replaced
// atomically on every write. Only the newest DefaultMaxReceipts entries are
// kept.
package state
