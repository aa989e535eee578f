// Package youtube fetches metadata for the videos embedded on the site.
//
// Lookups never fail a build. A video that cannot be resolved is logged and
// rendered as unavailable.
package youtube
