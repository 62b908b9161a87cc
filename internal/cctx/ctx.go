package cctx

type ContextKey string

var (
	RequestID ContextKey = "sb:rid"
)
