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
	// QueryGetClientByID is the query to retrieve a client by its id.
	QueryGetClientByID = dbmodel.DBQuery{
		ID: "CLQ-00001",
		Query: "SELECT CLIENT_ID, CLIENT_SECRET_HASH, REDIRECT_URIS, SCOPES, GRANT_TYPES, USER_ID " +
			"FROM IDN_OAUTH_CLIENT WHERE CLIENT_ID = $1",
		MySQLQuery: "SELECT CLIENT_ID, CLIENT_SECRET_HASH, REDIRECT_URIS, SCOPES, GRANT_TYPES, USER_ID " +
			"FROM IDN_OAUTH_CLIENT WHERE CLIENT_ID = ?",
	}
	// QueryInsertClient is the query to register a new client.
	QueryInsertClient = dbmodel.DBQuery{
		ID: "CLQ-00002",
		Query: "INSERT INTO IDN_OAUTH_CLIENT (CLIENT_ID, CLIENT_SECRET_HASH, REDIRECT_URIS, SCOPES, " +
			"GRANT_TYPES, USER_ID) VALUES ($1, $2, $3, $4, $5, $6)",
		MySQLQuery: "INSERT INTO IDN_OAUTH_CLIENT (CLIENT_ID, CLIENT_SECRET_HASH, REDIRECT_URIS, SCOPES, " +
			"GRANT_TYPES, USER_ID) VALUES (?, ?, ?, ?, ?, ?)",
	}
)
