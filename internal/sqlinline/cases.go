package sqlinline

const caseColumns = `id, title, description, story, images, status, lifecycle_stage,
       amount_raised, goal_amount, currency, updates, owner_user_id, clinic_id,
       closed_at, closed_reason, created_at, updated_at`

const QInsertCase = `--sql acbea622-aa3a-42ff-befb-da8f37a90ca5
insert into cases(id, title, description, story, images, status, lifecycle_stage,
                  amount_raised, goal_amount, currency, updates, owner_user_id, clinic_id,
                  created_at, updated_at)
values ($1::uuid, $2::text, $3::text, $4::text, coalesce($5::jsonb, '[]'::jsonb),
        $6::text, $7::text, 0, $8::bigint, $9::text, '[]'::jsonb,
        $10::uuid, nullif($11::text, '')::uuid, now(), now())
returning created_at, updated_at;
`

const QGetCase = `--sql 9a09ee00-4a9a-4050-9bc9-bc4fc140580b
select ` + caseColumns + `
from cases
where id = $1::uuid;
`

const QGetCasesByIDs = `--sql d4c4eb01-7273-4afa-8189-4f15a584ae44
select ` + caseColumns + `
from cases
where id = any($1::uuid[]);
`

const QListRecentCases = `--sql 02f357ca-c27c-426e-badb-48af20228ef7
select ` + caseColumns + `
from cases
order by created_at desc, id desc
limit $1::int;
`

const QListCasesByOwner = `--sql ad238623-e340-43bc-b44f-1ee9fac358b3
select ` + caseColumns + `
from cases
where owner_user_id = $1::uuid
order by created_at desc, id desc
limit $2::int;
`

const QListCasesFirstPage = `--sql a5da5b0d-1fcc-46aa-a583-e35a3cb79b29
select ` + caseColumns + `
from cases
order by created_at desc, id desc
limit $1::int;
`

// Keyset page: strictly older than the (created_at, id) cursor pair. The id
// tie-break keeps rows with identical created_at from being skipped or
// duplicated across pages.
const QListCasesPage = `--sql ec570067-1fbe-4af5-b7eb-639daa4313b0
select ` + caseColumns + `
from cases
where (created_at, id) < ($1::timestamptz, $2::uuid)
order by created_at desc, id desc
limit $3::int;
`

// Compare-and-swap stage transition. The where clause pins the expected
// current stage; zero rows updated means the caller lost the race or the
// case does not exist. The timeline entry is appended in the same statement
// so transition and audit entry commit atomically.
const QTransitionCaseStage = `--sql 6a94142a-8be7-4574-81a3-f21999f0cfa9
update cases
set lifecycle_stage = $3::text,
    closed_at = coalesce($4::timestamptz, closed_at),
    closed_reason = coalesce(nullif($5::text, ''), closed_reason),
    updates = updates || $6::jsonb,
    updated_at = now()
where id = $1::uuid and lifecycle_stage = $2::text
returning ` + caseColumns + `;
`

const QAppendCaseUpdate = `--sql 33659e08-24de-4a8b-93df-418b69c26ec1
update cases
set updates = updates || $2::jsonb,
    updated_at = now()
where id = $1::uuid
returning ` + caseColumns + `;
`
