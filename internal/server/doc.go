// Package server hosts the Fiber HTTP service. NewApp wires recover and
// request-id middleware, the asset middleware backed by an assets.Pipeline,
// and the fallback that runs when the pipeline delegates: either a static file
// handler over the asset root or a JSON 404. Diagnostics under /-/ are served
// by the routes subpackage and bypass the asset middleware.
package server
