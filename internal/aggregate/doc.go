// Package aggregate collects the content of one build from the content API,
// YouTube and the trending source into a model.Site.
package aggregate
