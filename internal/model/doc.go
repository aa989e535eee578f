// Package model defines the data shared across tipsgen.
//
// The content types mirror the backend API: Article, Author, Category and
// PersonalityTestQuestions. Site is the aggregated view one build renders
// from, and Build follows a single environment through the pipeline.
//
// Models live in their own package so the api, aggregate, render and
// pipeline packages can share them without import cycles.
package model
