package scanner

import (
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"c2Scope/internal/c2"
	"c2Scope/internal/model"
	"c2Scope/internal/payload"
)

const (
	// TimestampLayout renders UTC instants with an explicit +00:00 offset.
	TimestampLayout = "2006-01-02T15:04:05-07:00"

	rawLimit      = 300
	parseRawLimit = 200
)

func buildLogRecord(chainID uint64, contract string, log types.Log, timestamp uint64) model.LogRecord {
	topics := make([]string, 0, len(log.Topics))
	for _, topic := range log.Topics {
		topics = append(topics, topic.Hex())
	}

	return model.LogRecord{
		ChainID:     chainID,
		Contract:    contract,
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash.Hex(),
		LogIndex:    uint64(log.Index),
		Topics:      topics,
		Data:        hexutil.Encode(log.Data),
		Timestamp:   timestamp,
	}
}

// FormatTimestamp renders epoch seconds as ISO-8601 UTC.
func FormatTimestamp(epoch uint64) string {
	return time.Unix(int64(epoch), 0).UTC().Format(TimestampLayout)
}

// AssembleRecords turns the logs of one contract into output records: two per
// log when the payload parses, one PARSE_ERROR record otherwise.
func AssembleRecords(logs []model.LogRecord, contract, creator string, key c2.Key, decoder *c2.Decoder) []model.OutputRecord {
	records := make([]model.OutputRecord, 0, 2*len(logs))
	for _, log := range logs {
		base := model.OutputRecord{
			Contract:        contract,
			ContractCreator: creator,
			Block:           log.BlockNumber,
			Timestamp:       FormatTimestamp(log.Timestamp),
			TxHash:          log.TxHash,
			LogIndex:        log.LogIndex,
		}

		fields, err := payload.ExtractFields(log.Data)
		if err != nil {
			rec := base
			rec.Field = model.FieldParseError
			rec.Method = model.MethodParseError
			rec.Decoded = err.Error()
			rec.Raw = truncate(log.Data, parseRawLimit)
			records = append(records, rec)
			continue
		}

		for _, field := range []struct {
			name  string
			value string
		}{
			{model.FieldOldDomain, fields.OldDomain},
			{model.FieldNewDomain, fields.NewDomain},
		} {
			result := decoder.Decode(field.value, key)
			rec := base
			rec.Field = field.name
			rec.Method = result.Method
			rec.Decoded = result.Decoded
			rec.Raw = truncate(result.Raw, rawLimit)
			records = append(records, rec)
		}
	}
	return records
}

// truncate keeps the first n characters of s.
func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
