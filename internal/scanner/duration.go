package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goflac "github.com/go-flac/go-flac"
	"github.com/llehouerou/go-mp3"
)

var errNoStreamInfo = errors.New("flac: no streaminfo block")

// readDuration returns the track length in seconds. Formats without a cheap
// length probe report 0.
func readDuration(path string) (float64, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case extMP3:
		return mp3Duration(path)
	case extFLAC:
		return flacDuration(path)
	}
	return 0, nil
}

func mp3Duration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, err
	}
	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return 0, errors.New("mp3: invalid sample rate")
	}
	return float64(max(decoder.SampleCount(), 0)) / float64(sampleRate), nil
}

func flacDuration(path string) (float64, error) {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return 0, fmt.Errorf("parse flac: %w", err)
	}

	for _, meta := range f.Meta {
		if meta.Type != goflac.StreamInfo || len(meta.Data) < 18 {
			continue
		}
		// sample rate: 20 bits from byte 10; total samples: 36 bits from byte 13
		data := meta.Data
		sampleRate := int64(data[10])<<12 | int64(data[11])<<4 | int64(data[12])>>4
		totalSamples := int64(data[13]&0x0F)<<32 | int64(data[14])<<24 | int64(data[15])<<16 | int64(data[16])<<8 | int64(data[17])
		if sampleRate == 0 {
			return 0, nil
		}
		return float64(totalSamples) / float64(sampleRate), nil
	}
	return 0, errNoStreamInfo
}
