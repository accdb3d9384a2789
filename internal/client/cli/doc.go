// Package cli implements ledgerctl, the command-line client of the sample
// request ledger.
//
// Commands
//
//	ledgerctl login [-u user] [--password pw]   open a session and save its token
//	ledgerctl logout                            forget the saved token
//	ledgerctl ping                              check that the server answers
//	ledgerctl list [--search s] [--completion done|open] [--company c]...
//	ledgerctl summary                           dashboard figures
//	ledgerctl delete <no>...                    move records to the trash (admin)
//	ledgerctl restore <no>                      bring a record back (admin)
//	ledgerctl export [--format xlsx|csv] [-o file]
//
// The token is kept in --token-file between runs. Global flags override the
// config file and LEDGERCTL_* environment variables.
package cli
