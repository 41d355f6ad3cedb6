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

package store

import dbmodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/database/model"

var (
	// QueryGetUserByID is the query to retrieve a user by id.
	QueryGetUserByID = dbmodel.DBQuery{
		ID:         "USQ-00001",
		Query:      "SELECT USER_ID, USERNAME, PASSWORD_HASH, EXTERNAL_ID FROM IDN_USER WHERE USER_ID = $1",
		MySQLQuery: "SELECT USER_ID, USERNAME, PASSWORD_HASH, EXTERNAL_ID FROM IDN_USER WHERE USER_ID = ?",
	}
	// QueryGetUserByUsername is the query to retrieve a user by username.
	QueryGetUserByUsername = dbmodel.DBQuery{
		ID:         "USQ-00002",
		Query:      "SELECT USER_ID, USERNAME, PASSWORD_HASH, EXTERNAL_ID FROM IDN_USER WHERE USERNAME = $1",
		MySQLQuery: "SELECT USER_ID, USERNAME, PASSWORD_HASH, EXTERNAL_ID FROM IDN_USER WHERE USERNAME = ?",
	}
	// QueryGetUserByExternalID is the query to retrieve a user by federated external id.
	QueryGetUserByExternalID = dbmodel.DBQuery{
		ID:         "USQ-00003",
		Query:      "SELECT USER_ID, USERNAME, PASSWORD_HASH, EXTERNAL_ID FROM IDN_USER WHERE EXTERNAL_ID = $1",
		MySQLQuery: "SELECT USER_ID, USERNAME, PASSWORD_HASH, EXTERNAL_ID FROM IDN_USER WHERE EXTERNAL_ID = ?",
	}
	// QueryInsertUser is the query to create a user.
	QueryInsertUser = dbmodel.DBQuery{
		ID:         "USQ-00004",
		Query:      "INSERT INTO IDN_USER (USER_ID, USERNAME, PASSWORD_HASH, EXTERNAL_ID) VALUES ($1, $2, $3, $4)",
		MySQLQuery: "INSERT INTO IDN_USER (USER_ID, USERNAME, PASSWORD_HASH, EXTERNAL_ID) VALUES (?, ?, ?, ?)",
	}
	// QueryInsertFederatedUser creates a federated user unless one with the external id exists.
	QueryInsertFederatedUser = dbmodel.DBQuery{
		ID: "USQ-00005",
		Query: "INSERT INTO IDN_USER (USER_ID, USERNAME, PASSWORD_HASH, EXTERNAL_ID) VALUES ($1, $2, $3, $4) " +
			"ON CONFLICT (EXTERNAL_ID) DO NOTHING",
		MySQLQuery: "INSERT IGNORE INTO IDN_USER (USER_ID, USERNAME, PASSWORD_HASH, EXTERNAL_ID) " +
			"VALUES (?, ?, ?, ?)",
	}
)
