package utilities

import (
	"encoding/json"
	"fmt"
	"os"
)

type JsonConfigObj[T any] interface {
	ConvertToDomain() T
}

func ReadConfig[T JsonConfigObj[U], U any](file string) (U, error) {
	var empty U

	fileContent, err := os.ReadFile(file)
	if err != nil {
		return empty, err
	}

	return ParseConfig[T, U](fileContent)
}

func ParseConfig[T JsonConfigObj[U], U any](content []byte) (U, error) {
	var empty U

	var config T
	if err := json.Unmarshal(content, &config); err != nil {
		return empty, fmt.Errorf("parse config: %w", err)
	}

	return config.ConvertToDomain(), nil
}

func ConvertJsonArrayToDomain[T JsonConfigObj[U], U any](jsonArray []T) []U {
	domainArray := make([]U, 0, len(jsonArray))
	for _, item := range jsonArray {
		domainArray = append(domainArray, item.ConvertToDomain())
	}
	return domainArray
}
