// Package s3 provides a read client for S3-compatible object storage.
//
// Booster catalogs and booster source archives can be published to a
// bucket instead of a git repository. The client lists catalog metadata
// keys and streams archive objects to the stager.
package s3
