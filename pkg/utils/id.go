package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID 36 位以内的主键；去掉连字符保持紧凑
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
