/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dbTimeFormat = "2006-01-02 15:04:05.999999999"

// ParseTimeField converts a time column read from the database into a time.Time.
// Epoch seconds, time.Time values and the textual timestamp format are accepted.
func ParseTimeField(field interface{}, fieldName string) (time.Time, error) {
	switch v := field.(type) {
	case int64:
		return time.Unix(v, 0).UTC(), nil
	case int:
		return time.Unix(int64(v), 0).UTC(), nil
	case float64:
		return time.Unix(int64(v), 0).UTC(), nil
	case time.Time:
		return v, nil
	case string:
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Unix(epoch, 0).UTC(), nil
		}
		parsed, err := time.Parse(dbTimeFormat, trimTimeString(v))
		if err != nil {
			return time.Time{}, fmt.Errorf("error parsing %s: %w", fieldName, err)
		}
		return parsed, nil
	default:
		return time.Time{}, fmt.Errorf("unexpected type %T for %s", field, fieldName)
	}
}

// trimTimeString drops a trailing zone or offset part of a textual timestamp.
func trimTimeString(timeStr string) string {
	parts := strings.SplitN(timeStr, " ", 3)
	if len(parts) >= 2 {
		return parts[0] + " " + parts[1]
	}
	return timeStr
}
