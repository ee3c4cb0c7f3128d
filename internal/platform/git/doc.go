// Package git wraps go-git for the three operations a launch needs:
// cloning a booster source at a ref, turning a staged directory into a
// single-commit repository, and pushing that commit to the freshly created
// remote.
//
// Clones keep their object storage in memory so the destination holds only
// the working tree. Authentication is either an HTTPS token or an SSH key
// checked against a known_hosts file.
package git
