// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sgf

import (
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"time"

	twogtp "laptudirm.com/x/twogtp/pkg/common"
)

// Timezone is the fixed zone every record is stamped in. Keeping it
// fixed process-wide makes file names reproducible wherever the
// matches run.
var Timezone = time.FixedZone("UTC+9", 9*60*60)

func Now() time.Time {
	return time.Now().In(Timezone)
}

// FileName builds the record's file name from its serialized form: a
// sortable timestamp, the player names when both are known, and a
// crc32 of the document so records written in the same second still
// get distinct names.
func (record *Record) FileName(serialized string, now time.Time) string {
	hash := crc32.ChecksumIEEE([]byte(serialized))
	stamp := now.Format("20060102-150405")

	if record.Black != "" && record.White != "" {
		return fmt.Sprintf("%s_%s-%s_%08x.sgf", stamp, record.Black, record.White, hash)
	}

	return fmt.Sprintf("%s_%08x.sgf", stamp, hash)
}

// WriteDir serializes the record into one file inside dir, creating
// the directory if absent, and returns the written file's path.
func (record *Record) WriteDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, twogtp.FilePermissions); err != nil {
		return "", err
	}

	serialized := record.Serialize()
	path := filepath.Join(dir, record.FileName(serialized, Now()))

	if err := os.WriteFile(path, []byte(serialized), twogtp.FilePermissions); err != nil {
		return "", err
	}

	return path, nil
}
