// Package api is the typed client for the TherapyTips content API.
//
// Every endpoint answers with the envelope {success, data, message,
// pagination}. The client decodes it once into a Result and turns any
// failure into a *RemoteFetchError, so callers only ever see a value or an
// error.
package api
