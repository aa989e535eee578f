// Package deploy uploads a finished build tree over FTP.
//
// Collect maps every file of ./builds/{env} to its remote path, DryRun prints
// that mapping without connecting, and Shipper transfers the files one by one
// through a Dialer, creating remote directories as needed.
package deploy
