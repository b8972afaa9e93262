package sqlinline

const donationColumns = `id, user_id, case_id, amount_int, currency, status, anonymous, country, created_at`

const QInsertDonation = `--sql 4b034d9d-2088-4487-ae77-5ab671626dd4
insert into donations(id, user_id, case_id, amount_int, currency, status, anonymous, country, created_at)
values ($1::uuid, $2::uuid, nullif($3::text, '')::uuid, $4::bigint, $5::text, $6::text, $7::boolean, $8::text, now())
returning created_at;
`

const QListCompletedDonations = `--sql df4f0e6d-81ad-4a16-b12b-6246c37a8d3d
select ` + donationColumns + `
from donations
where status = 'completed'
order by created_at desc, id desc
limit $1::int;
`

const QListDonationsByUser = `--sql 541267f8-afc8-42be-a3d8-cd097f0935f1
select ` + donationColumns + `
from donations
where user_id = $1::uuid and status = 'completed'
order by created_at desc, id desc
limit $2::int;
`

const QListDonationsByCase = `--sql 0f0dd8c9-8472-4cd7-b3f7-5355836b6a02
select ` + donationColumns + `
from donations
where case_id = $1::uuid and status = 'completed'
order by created_at desc, id desc
limit $2::int;
`
