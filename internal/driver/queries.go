package driver

// Cypher for the catalog graph. Shape:
//
//	(:User {email})-[:FOLLOW|OWNER_OF|READ]->(:Table {key})
//	(:Table)-[:COLUMN]->(:Column {name})-[:DESCRIPTION]->(:Description)
//	(:Table)-[:DESCRIPTION]->(:Description)
//	(:Tag {key})-[:TAG]->(:Table)
//
// Reverse edges (FOLLOWED_BY, OWNER, READ_BY, TAGGED_BY) are written
// alongside the forward ones so either endpoint can be the traversal root.
// All writes go through MERGE, which is what makes add/delete idempotent
// under client retries.
const (
	GetUserQuery = `
		MATCH (u:User {email: $email})
		RETURN u.email AS email, u.first_name AS first_name, u.last_name AS last_name,
			u.full_name AS full_name, u.team_name AS team_name, u.employee_type AS employee_type,
			u.slack_id AS slack_id, u.github_username AS github_username,
			u.manager_fullname AS manager_fullname, u.is_active AS is_active
	`

	GetUsersQuery = `
		MATCH (u:User)
		RETURN u.email AS email, u.first_name AS first_name, u.last_name AS last_name,
			u.full_name AS full_name, u.team_name AS team_name, u.employee_type AS employee_type,
			u.slack_id AS slack_id, u.github_username AS github_username,
			u.manager_fullname AS manager_fullname, u.is_active AS is_active
		ORDER BY u.email
	`

	GetTableQuery = `
		MATCH (t:Table {key: $key})
		OPTIONAL MATCH (t)-[:DESCRIPTION]->(d:Description)
		OPTIONAL MATCH (t)-[:COLUMN]->(c:Column)
		OPTIONAL MATCH (c)-[:DESCRIPTION]->(cd:Description)
		WITH t, d, c, cd
		ORDER BY c.sort_order
		WITH t, d,
			collect(CASE WHEN c IS NULL THEN NULL ELSE
				{name: c.name, col_type: c.col_type, sort_order: c.sort_order, description: cd.description}
			END) AS columns
		OPTIONAL MATCH (tag:Tag)-[:TAG]->(t)
		WITH t, d, columns,
			collect(DISTINCT CASE WHEN tag IS NULL THEN NULL ELSE
				{tag_name: tag.key, tag_type: tag.tag_type}
			END) AS tags
		OPTIONAL MATCH (o:User)-[:OWNER_OF]->(t)
		RETURN t.database AS database, t.cluster AS cluster, t.schema AS schema,
			t.name AS name, t.is_view AS is_view, d.description AS description,
			columns, tags,
			collect(DISTINCT CASE WHEN o IS NULL THEN NULL ELSE
				{email: o.email, full_name: o.full_name, team_name: o.team_name}
			END) AS owners
	`

	// EndpointsExistQuery reports which of the (user, table) pair resolve,
	// so a failed mutation can be classified precisely.
	EndpointsExistQuery = `
		OPTIONAL MATCH (u:User {email: $email})
		OPTIONAL MATCH (t:Table {key: $key})
		RETURN u IS NOT NULL AS user_exists, t IS NOT NULL AS table_exists
	`

	// AddRelationQuery and DeleteRelationQuery are templates: relationship
	// types cannot be query parameters in Cypher, so the forward/reverse
	// labels are substituted from the validated relation type.
	AddRelationQuery = `
		MATCH (u:User {email: $email})
		MATCH (t:Table {key: $key})
		MERGE (u)-[:%s]->(t)
		MERGE (t)-[:%s]->(u)
		RETURN u.email AS email
	`

	DeleteRelationQuery = `
		MATCH (u:User {email: $email}), (t:Table {key: $key})
		OPTIONAL MATCH (u)-[fwd:%s]->(t)
		OPTIONAL MATCH (t)-[rev:%s]->(u)
		DELETE fwd, rev
		RETURN u.email AS email
	`

	RelatedTablesQuery = `
		MATCH (u:User {email: $email})-[:%s]->(t:Table)
		OPTIONAL MATCH (t)-[:DESCRIPTION]->(d:Description)
		RETURN t.database AS database, t.cluster AS cluster, t.schema AS schema,
			t.name AS name, d.description AS description
		ORDER BY t.key
	`

	RecordReadQuery = `
		MATCH (u:User {email: $email})
		MATCH (t:Table {key: $key})
		MERGE (u)-[r:READ]->(t)
		ON CREATE SET r.read_count = 1, r.last_read = $ts
		ON MATCH SET r.read_count = r.read_count + 1, r.last_read = $ts
		MERGE (t)-[:READ_BY]->(u)
		RETURN r.read_count AS read_count
	`

	FrequentlyReadQuery = `
		MATCH (u:User {email: $email})-[r:READ]->(t:Table)
		OPTIONAL MATCH (t)-[:DESCRIPTION]->(d:Description)
		RETURN t.database AS database, t.cluster AS cluster, t.schema AS schema,
			t.name AS name, d.description AS description,
			r.read_count AS read_count, r.last_read AS last_read
		ORDER BY r.read_count DESC, r.last_read DESC
		LIMIT $limit
	`

	AddTagQuery = `
		MATCH (t:Table {key: $key})
		MERGE (tag:Tag {key: $tag})
		ON CREATE SET tag.tag_type = $tag_type
		MERGE (tag)-[:TAG]->(t)
		MERGE (t)-[:TAGGED_BY]->(tag)
		RETURN t.key AS key
	`

	DeleteTagQuery = `
		MATCH (t:Table {key: $key})
		OPTIONAL MATCH (tag:Tag {key: $tag})-[fwd:TAG]->(t)
		OPTIONAL MATCH (t)-[rev:TAGGED_BY]->(:Tag {key: $tag})
		DELETE fwd, rev
		RETURN t.key AS key
	`

	GetTagsQuery = `
		MATCH (tag:Tag)-[:TAG]->(t:Table)
		RETURN tag.key AS tag_name, count(DISTINCT t) AS tag_count
		ORDER BY tag_count DESC, tag_name
	`

	GetTableDescriptionQuery = `
		MATCH (t:Table {key: $key})
		OPTIONAL MATCH (t)-[:DESCRIPTION]->(d:Description)
		RETURN d.description AS description
	`

	PutTableDescriptionQuery = `
		MATCH (t:Table {key: $key})
		MERGE (t)-[:DESCRIPTION]->(d:Description)
		SET d.description = $description
		RETURN t.key AS key
	`

	GetColumnDescriptionQuery = `
		MATCH (t:Table {key: $key})-[:COLUMN]->(c:Column {name: $column_name})
		OPTIONAL MATCH (c)-[:DESCRIPTION]->(d:Description)
		RETURN d.description AS description
	`

	PutColumnDescriptionQuery = `
		MATCH (t:Table {key: $key})-[:COLUMN]->(c:Column {name: $column_name})
		MERGE (c)-[:DESCRIPTION]->(d:Description)
		SET d.description = $description
		RETURN c.name AS name
	`

	PopularTablesQuery = `
		MATCH (:User)-[r:READ]->(t:Table)
		WITH t, sum(r.read_count) AS score
		OPTIONAL MATCH (t)-[:DESCRIPTION]->(d:Description)
		RETURN t.database AS database, t.cluster AS cluster, t.schema AS schema,
			t.name AS name, d.description AS description, score
		ORDER BY score DESC, t.key
		LIMIT $limit
	`

	// The Updatedtimestamp singleton is a high-water mark: TouchUpdatedTs
	// only ever moves it forward, which is what keeps GetLatestUpdatedTs
	// monotone for callers using it as a staleness check.
	TouchUpdatedTsQuery = `
		MERGE (n:Updatedtimestamp)
		SET n.latest_timestamp = CASE
			WHEN n.latest_timestamp IS NULL OR n.latest_timestamp < $ts THEN $ts
			ELSE n.latest_timestamp
		END
		RETURN n.latest_timestamp AS latest_timestamp
	`

	GetLatestUpdatedTsQuery = `
		MATCH (n:Updatedtimestamp)
		RETURN n.latest_timestamp AS latest_timestamp
	`
)
