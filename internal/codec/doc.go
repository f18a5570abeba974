// Package codec encodes timestamps in protocol buffer wire format so that
// callers can ship them between nodes over whatever transport they use.
// The schema lives in api/timestamps.proto.
package codec
