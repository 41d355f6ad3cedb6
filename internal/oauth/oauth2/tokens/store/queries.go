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

const tokenColumns = "TOKEN_ID, TOKEN_KIND, CLIENT_ID, USER_ID, SCOPES, GRANT_TYPE, ISSUED_AT, EXPIRY_TIME, " +
	"REFRESH_TOKEN_HASH, STATE"

var (
	// QueryUpsertToken inserts a token or rebinds an existing record with the same value.
	// The state of an existing record is left untouched so a retry can not revive a revoked token.
	QueryUpsertToken = dbmodel.DBQuery{
		ID: "TKQ-00001",
		Query: "INSERT INTO IDN_OAUTH2_TOKEN (TOKEN_ID, TOKEN_HASH, TOKEN_KIND, CLIENT_ID, USER_ID, SCOPES, " +
			"GRANT_TYPE, ISSUED_AT, EXPIRY_TIME, REFRESH_TOKEN_HASH, STATE) " +
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) " +
			"ON CONFLICT (TOKEN_HASH) DO UPDATE SET CLIENT_ID = EXCLUDED.CLIENT_ID, USER_ID = EXCLUDED.USER_ID, " +
			"SCOPES = EXCLUDED.SCOPES, GRANT_TYPE = EXCLUDED.GRANT_TYPE, ISSUED_AT = EXCLUDED.ISSUED_AT, " +
			"EXPIRY_TIME = EXCLUDED.EXPIRY_TIME, REFRESH_TOKEN_HASH = EXCLUDED.REFRESH_TOKEN_HASH",
		MySQLQuery: "INSERT INTO IDN_OAUTH2_TOKEN (TOKEN_ID, TOKEN_HASH, TOKEN_KIND, CLIENT_ID, USER_ID, SCOPES, " +
			"GRANT_TYPE, ISSUED_AT, EXPIRY_TIME, REFRESH_TOKEN_HASH, STATE) " +
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) " +
			"ON DUPLICATE KEY UPDATE CLIENT_ID = VALUES(CLIENT_ID), USER_ID = VALUES(USER_ID), " +
			"SCOPES = VALUES(SCOPES), GRANT_TYPE = VALUES(GRANT_TYPE), ISSUED_AT = VALUES(ISSUED_AT), " +
			"EXPIRY_TIME = VALUES(EXPIRY_TIME), REFRESH_TOKEN_HASH = VALUES(REFRESH_TOKEN_HASH)",
	}
	// QueryGetToken retrieves a token of the given kind by the hash of its value.
	QueryGetToken = dbmodel.DBQuery{
		ID:         "TKQ-00002",
		Query:      "SELECT " + tokenColumns + " FROM IDN_OAUTH2_TOKEN WHERE TOKEN_HASH = $1 AND TOKEN_KIND = $2",
		MySQLQuery: "SELECT " + tokenColumns + " FROM IDN_OAUTH2_TOKEN WHERE TOKEN_HASH = ? AND TOKEN_KIND = ?",
	}
	// QueryRevokeToken revokes a token that is not revoked yet.
	QueryRevokeToken = dbmodel.DBQuery{
		ID:         "TKQ-00003",
		Query:      "UPDATE IDN_OAUTH2_TOKEN SET STATE = $1 WHERE TOKEN_HASH = $2 AND STATE <> $3",
		MySQLQuery: "UPDATE IDN_OAUTH2_TOKEN SET STATE = ? WHERE TOKEN_HASH = ? AND STATE <> ?",
	}
	// QueryRevokeAccessTokensByRefreshToken revokes the active access tokens issued with a refresh token.
	QueryRevokeAccessTokensByRefreshToken = dbmodel.DBQuery{
		ID: "TKQ-00004",
		Query: "UPDATE IDN_OAUTH2_TOKEN SET STATE = $1 WHERE REFRESH_TOKEN_HASH = $2 AND TOKEN_KIND = $3 " +
			"AND STATE = $4",
		MySQLQuery: "UPDATE IDN_OAUTH2_TOKEN SET STATE = ? WHERE REFRESH_TOKEN_HASH = ? AND TOKEN_KIND = ? " +
			"AND STATE = ?",
	}
	// QueryTransitionTokenState moves a token of the given kind out of the expected state.
	QueryTransitionTokenState = dbmodel.DBQuery{
		ID: "TKQ-00005",
		Query: "UPDATE IDN_OAUTH2_TOKEN SET STATE = $1 WHERE TOKEN_HASH = $2 AND TOKEN_KIND = $3 " +
			"AND STATE = $4",
		MySQLQuery: "UPDATE IDN_OAUTH2_TOKEN SET STATE = ? WHERE TOKEN_HASH = ? AND TOKEN_KIND = ? " +
			"AND STATE = ?",
	}
)
