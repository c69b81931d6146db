// Package platform provides OS-level helpers: directory handling, external
// tool resolution, and opening folders in the system file manager.
package platform
