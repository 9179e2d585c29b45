package remote

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// QueryResult is a decoded search result: an Arrow table held as record
// batches. Call Close when done to release the underlying buffers.
type QueryResult struct {
	schema  *arrow.Schema
	records []arrow.Record
	numRows int64
}

// Schema returns the result schema.
func (r *QueryResult) Schema() *arrow.Schema { return r.schema }

// Records returns the decoded record batches. They are valid until Close.
func (r *QueryResult) Records() []arrow.Record { return r.records }

// NumRows returns the total row count across all batches.
func (r *QueryResult) NumRows() int64 { return r.numRows }

// Close releases the Arrow buffers backing the result.
func (r *QueryResult) Close() {
	for _, rec := range r.records {
		rec.Release()
	}
	r.records = nil
}

// Rows materializes every row as a generic map, in batch order. Convenient
// for small result sets; large consumers should walk Records directly.
func (r *QueryResult) Rows() ([]map[string]any, error) {
	rows := make([]map[string]any, 0, r.numRows)
	for _, rec := range r.records {
		var buf bytes.Buffer
		if err := array.RecordToJSON(rec, &buf); err != nil {
			return nil, fmt.Errorf("encode record batch: %w", err)
		}
		batch, err := decodeJSONRows(buf.Bytes())
		if err != nil {
			return nil, err
		}
		rows = append(rows, batch...)
	}
	return rows, nil
}

// decodeJSONRows accepts either a JSON array of objects or newline-delimited
// objects.
func decodeJSONRows(b []byte) ([]map[string]any, error) {
	var rows []map[string]any
	if err := json.Unmarshal(b, &rows); err == nil {
		return rows, nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	for {
		var row map[string]any
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				return rows, nil
			}
			return nil, fmt.Errorf("decode row: %w", err)
		}
		rows = append(rows, row)
	}
}

// DecodeTable decodes an Arrow IPC payload into a QueryResult. Both the file
// and the stream framing are accepted; the service replies with the file
// framing.
func DecodeTable(payload []byte) (*QueryResult, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty table payload")
	}
	if result, err := decodeIPCFile(payload); err == nil {
		return result, nil
	}
	return decodeIPCStream(payload)
}

func decodeIPCFile(payload []byte) (*QueryResult, error) {
	rdr, err := ipc.NewFileReader(bytes.NewReader(payload), ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		return nil, fmt.Errorf("open arrow file: %w", err)
	}
	defer rdr.Close()

	result := &QueryResult{schema: rdr.Schema()}
	for {
		rec, err := rdr.Read()
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		if err != nil {
			result.Close()
			return nil, fmt.Errorf("read record batch: %w", err)
		}
		rec.Retain()
		result.records = append(result.records, rec)
		result.numRows += rec.NumRows()
	}
}

func decodeIPCStream(payload []byte) (*QueryResult, error) {
	rdr, err := ipc.NewReader(bytes.NewReader(payload), ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		return nil, fmt.Errorf("open arrow stream: %w", err)
	}
	defer rdr.Release()

	result := &QueryResult{schema: rdr.Schema()}
	for rdr.Next() {
		rec := rdr.Record()
		rec.Retain()
		result.records = append(result.records, rec)
		result.numRows += rec.NumRows()
	}
	if err := rdr.Err(); err != nil {
		result.Close()
		return nil, fmt.Errorf("read arrow stream: %w", err)
	}
	return result, nil
}
