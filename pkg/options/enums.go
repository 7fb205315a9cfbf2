package options

// Fixed domain enum tables, parallel to RocksDB's CompressionType /
// CompactionStyle / ChecksumType string maps in options_helper.cc. A
// Descriptor tagged with one of the TagEnumXxx tags gets its Enum
// field populated lazily from here on first parse/serialize, via
// bindFixedEnum -- callers never need to set Enum themselves for
// these six fixed tags, only for a bare TagEnum with a custom
// mapping.

var (
	compressionEnum = NewEnumMap(map[string]int64{
		"none":   0,
		"snappy": 1,
		"lz4":    2,
		"zstd":   3,
	})

	compactionStyleEnum = NewEnumMap(map[string]int64{
		"level":    0,
		"universal": 1,
		"fifo":     2,
	})

	compactionPriEnum = NewEnumMap(map[string]int64{
		"by-compensated-size": 0,
		"oldest-first":        1,
		"min-overlapping":     2,
	})

	checksumTypeEnum = NewEnumMap(map[string]int64{
		"none":   0,
		"crc32c": 1,
		"xxhash": 2,
		"sha256": 3,
	})

	encodingTypeEnum = NewEnumMap(map[string]int64{
		"plain":     0,
		"delta":     1,
		"dictionary": 2,
	})

	compactionStopStyleEnum = NewEnumMap(map[string]int64{
		"similar-size": 0,
		"total-size":   1,
	})
)

// enumForTag returns the fixed EnumMap backing one of the domain enum
// tags, or nil for TagEnum (whose map is supplied per-descriptor by
// the caller).
func enumForTag(tag Tag) *EnumMap {
	switch tag {
	case TagEnumCompression:
		return compressionEnum
	case TagEnumCompactionStyle:
		return compactionStyleEnum
	case TagEnumCompactionPri:
		return compactionPriEnum
	case TagEnumChecksumType:
		return checksumTypeEnum
	case TagEnumEncodingType:
		return encodingTypeEnum
	case TagEnumCompactionStopStyle:
		return compactionStopStyleEnum
	default:
		return nil
	}
}

// bindFixedEnum fills in d.Enum from the fixed table for d.Tag, unless
// the descriptor already carries an explicit override (TagEnum always
// requires one).
func bindFixedEnum(d *Descriptor) {
	if d.Enum != nil {
		return
	}
	d.Enum = enumForTag(d.Tag)
}
