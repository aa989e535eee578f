// Package database stores the history of builds and uploads in SQLite.
//
// Each build is saved with its output manifest, one row per file with size
// and SHA3-256 digest, so two builds of the same environment can be compared.
// Uploads are saved with the remote target and the number of bytes sent.
package database
