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

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDBQueryGetQuery(t *testing.T) {
	query := DBQuery{
		ID:         "TST-00001",
		Query:      "SELECT 1 WHERE A = $1",
		MySQLQuery: "SELECT 1 WHERE A = ?",
	}

	assert.Equal(t, "TST-00001", query.GetID())
	assert.Equal(t, "SELECT 1 WHERE A = $1", query.GetQuery(DBTypePostgres))
	assert.Equal(t, "SELECT 1 WHERE A = $1", query.GetQuery(DBTypeSQLite))
	assert.Equal(t, "SELECT 1 WHERE A = ?", query.GetQuery(DBTypeMySQL))
	assert.Equal(t, "SELECT 1 WHERE A = $1", query.GetQuery("unknown"))
}

func TestDBQueryDialectOverrides(t *testing.T) {
	query := DBQuery{
		ID:            "TST-00002",
		Query:         "INSERT INTO T VALUES ($1)",
		PostgresQuery: "INSERT INTO T VALUES ($1) ON CONFLICT DO NOTHING",
		SQLiteQuery:   "INSERT OR IGNORE INTO T VALUES ($1)",
	}

	assert.Equal(t, query.PostgresQuery, query.GetQuery(DBTypePostgres))
	assert.Equal(t, query.SQLiteQuery, query.GetQuery(DBTypeSQLite))
	assert.Equal(t, query.Query, query.GetQuery(DBTypeMySQL))
}
