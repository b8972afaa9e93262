package sqlinline

const userColumns = `id, email, name, avatar_key, locale, role, created_at, updated_at`

const QGetUser = `--sql 44899901-3331-4b53-8cb9-32337700f2ea
select ` + userColumns + `
from users
where id = $1::uuid;
`

const QGetUsersByIDs = `--sql d8b45d99-346b-43de-a740-8433b9915512
select ` + userColumns + `
from users
where id = any($1::uuid[]);
`
