package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// PassLine 及格线与人工批阅判对线共用的比例（满分的 60%）
const PassLine = 0.6
