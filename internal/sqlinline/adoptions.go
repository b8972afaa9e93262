package sqlinline

const QListCompletedAdoptions = `--sql 428d4e05-8bea-44b3-b204-c47433e64012
select id, user_id, name, animal_type, status, created_at
from adoptions
where status = 'completed'
order by created_at desc, id desc
limit $1::int;
`
