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

package constants

import dbmodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/database/model"

// QueryInsertAuthorizationCode is the query to insert a new authorization code into the database.
var QueryInsertAuthorizationCode = dbmodel.DBQuery{
	ID: "AZQ-00001",
	Query: "INSERT INTO IDN_OAUTH2_AUTHZ_CODE (CODE_ID, AUTHORIZATION_CODE_HASH, CONSUMER_KEY, " +
		"CALLBACK_URL, AUTHZ_USER, TIME_CREATED, EXPIRY_TIME, CODE_CHALLENGE, CODE_CHALLENGE_METHOD, STATE) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)",
	MySQLQuery: "INSERT INTO IDN_OAUTH2_AUTHZ_CODE (CODE_ID, AUTHORIZATION_CODE_HASH, CONSUMER_KEY, " +
		"CALLBACK_URL, AUTHZ_USER, TIME_CREATED, EXPIRY_TIME, CODE_CHALLENGE, CODE_CHALLENGE_METHOD, STATE) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
}

// QueryInsertAuthorizationCodeScopes is the query to insert scopes for an authorization code.
var QueryInsertAuthorizationCodeScopes = dbmodel.DBQuery{
	ID:         "AZQ-00002",
	Query:      "INSERT INTO IDN_OAUTH2_AUTHZ_CODE_SCOPE (CODE_ID, SCOPE) VALUES ($1, $2)",
	MySQLQuery: "INSERT INTO IDN_OAUTH2_AUTHZ_CODE_SCOPE (CODE_ID, SCOPE) VALUES (?, ?)",
}

// QueryGetAuthorizationCode is the query to retrieve an authorization code by the hash of its value.
var QueryGetAuthorizationCode = dbmodel.DBQuery{
	ID: "AZQ-00003",
	Query: "SELECT CODE_ID, CONSUMER_KEY, CALLBACK_URL, AUTHZ_USER, TIME_CREATED, EXPIRY_TIME, " +
		"CODE_CHALLENGE, CODE_CHALLENGE_METHOD, STATE FROM IDN_OAUTH2_AUTHZ_CODE " +
		"WHERE AUTHORIZATION_CODE_HASH = $1",
	MySQLQuery: "SELECT CODE_ID, CONSUMER_KEY, CALLBACK_URL, AUTHZ_USER, TIME_CREATED, EXPIRY_TIME, " +
		"CODE_CHALLENGE, CODE_CHALLENGE_METHOD, STATE FROM IDN_OAUTH2_AUTHZ_CODE " +
		"WHERE AUTHORIZATION_CODE_HASH = ?",
}

// QueryGetAuthorizationCodeScopes is the query to retrieve scopes for an authorization code.
var QueryGetAuthorizationCodeScopes = dbmodel.DBQuery{
	ID:         "AZQ-00004",
	Query:      "SELECT SCOPE FROM IDN_OAUTH2_AUTHZ_CODE_SCOPE WHERE CODE_ID = $1",
	MySQLQuery: "SELECT SCOPE FROM IDN_OAUTH2_AUTHZ_CODE_SCOPE WHERE CODE_ID = ?",
}

// QueryTransitionAuthorizationCodeState moves an authorization code out of the expected state.
// Zero rows affected means another request changed the state first.
var QueryTransitionAuthorizationCodeState = dbmodel.DBQuery{
	ID:         "AZQ-00005",
	Query:      "UPDATE IDN_OAUTH2_AUTHZ_CODE SET STATE = $1 WHERE CODE_ID = $2 AND STATE = $3",
	MySQLQuery: "UPDATE IDN_OAUTH2_AUTHZ_CODE SET STATE = ? WHERE CODE_ID = ? AND STATE = ?",
}

// QueryTransitionUnexpiredAuthorizationCodeState moves an authorization code out of the expected
// state only while EXPIRY_TIME is still ahead of the given instant.
var QueryTransitionUnexpiredAuthorizationCodeState = dbmodel.DBQuery{
	ID: "AZQ-00006",
	Query: "UPDATE IDN_OAUTH2_AUTHZ_CODE SET STATE = $1 WHERE CODE_ID = $2 AND STATE = $3 " +
		"AND EXPIRY_TIME > $4",
	MySQLQuery: "UPDATE IDN_OAUTH2_AUTHZ_CODE SET STATE = ? WHERE CODE_ID = ? AND STATE = ? " +
		"AND EXPIRY_TIME > ?",
}
